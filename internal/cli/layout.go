package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/circuit-background/internal/config"
)

// viewport is the --width/--height pair shared by headless commands. Zero
// means the size from the [window] config section.
type viewport struct {
	width, height int
}

func (v *viewport) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&v.width, "width", 0, "viewport width in pixels (default: window.width)")
	cmd.Flags().IntVar(&v.height, "height", 0, "viewport height in pixels (default: window.height)")
}

func (v viewport) resolve(cfg config.Config) (int, int) {
	w, h := v.width, v.height
	if w <= 0 {
		w = cfg.Window.Width
	}
	if h <= 0 {
		h = cfg.Window.Height
	}
	return w, h
}

// layoutCommand creates the layout command for inspecting generated boards.
func (c *CLI) layoutCommand() *cobra.Command {
	var vp viewport

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Generate a board and print its statistics",
		Long: `Generate a board for the given viewport and print grid size, chip and
trace counts and how much of the grid they occupy. Useful for tuning the
[layout] section of a config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), vp)
		},
	}
	vp.register(cmd)
	return cmd
}

func (c *CLI) runLayout(ctx context.Context, vp viewport) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	w, h := vp.resolve(cfg)

	sc := c.newScene(cfg)
	start := time.Now()
	sc.Resize(w, h)
	elapsed := time.Since(start)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	st := sc.Stats()
	cells := st.Cols * st.Rows
	occupancy := 0.0
	if cells > 0 {
		occupancy = 100 * float64(st.OccupiedCells) / float64(cells)
	}

	printTitle(c.out, fmt.Sprintf("Board %dx%d", w, h))
	printKeyValue(c.out, "grid", fmt.Sprintf("%dx%d cells of %dpx", st.Cols, st.Rows, cfg.Layout.GridSize))
	printKeyNumber(c.out, "chips", st.Chips)
	printKeyValue(c.out, "chip attempts", fmt.Sprint(st.ChipAttempts))
	printKeyNumber(c.out, "traces", st.Traces)
	printKeyValue(c.out, "trace attempts", fmt.Sprint(st.TraceAttempts))
	printKeyNumber(c.out, "trace cells", st.TraceCells)
	printKeyValue(c.out, "occupied", fmt.Sprintf("%d (%.1f%%)", st.OccupiedCells, occupancy))
	printKeyValue(c.out, "generated in", elapsed.Round(time.Microsecond).String())
	return nil
}
