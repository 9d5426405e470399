package cli

import (
	"github.com/spf13/cobra"
)

// windowCommand opens the animated background in a window.
func (c *CLI) windowCommand() *cobra.Command {
	var (
		vp    viewport
		debug bool
	)

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Show the animated background in a window",
		Long: `Open a resizable window showing the animated background. The board is
regenerated whenever the window size changes.

Keys: Space pauses the pulses, D toggles the debug overlay, Esc or Q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Window == nil {
				return ErrNoWindow
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cfg.Window.Width, cfg.Window.Height = vp.resolve(cfg)
			return c.Window(cmd.Context(), c.newScene(cfg), cfg, c.Logger, debug)
		},
	}
	vp.register(cmd)
	cmd.Flags().BoolVar(&debug, "debug", false, "show the frame-time overlay")
	return cmd
}
