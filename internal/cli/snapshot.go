package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/circuit-background/internal/scene"
	"github.com/iburimskiy/circuit-background/internal/surface/raster"
)

// snapshotCommand renders a single frame to a PNG file.
func (c *CLI) snapshotCommand() *cobra.Command {
	var (
		vp     viewport
		frames int
		output string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render one frame to PNG",
		Long: `Generate a board, advance the pulse simulation for --frames updates so
pulses are in flight, and write the resulting frame as a PNG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSnapshot(cmd.Context(), vp, frames, output)
		},
	}
	vp.register(cmd)
	cmd.Flags().IntVar(&frames, "frames", 120, "updates to run before capturing")
	cmd.Flags().StringVarP(&output, "output", "o", "circuit.png", "output file")
	return cmd
}

func (c *CLI) runSnapshot(ctx context.Context, vp viewport, frames int, output string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	w, h := vp.resolve(cfg)
	prog := newProgress(c.Logger)

	sc := c.newScene(cfg)
	sc.Resize(w, h)
	if err := advance(ctx, sc, frames); err != nil {
		return err
	}

	surf := raster.New(w, h, cfg.Style.Background.NRGBA)
	sc.Draw(surf)

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	if err := surf.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", output, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	prog.done(fmt.Sprintf("Rendered %dx%d frame", w, h))
	printSuccess(c.out, "Snapshot complete")
	printFile(c.out, output)
	return nil
}

// advance runs n scene updates, stopping early if ctx is cancelled.
func advance(ctx context.Context, sc *scene.Scene, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		sc.Update()
	}
	return nil
}
