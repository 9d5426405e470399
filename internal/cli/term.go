package cli

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/circuit-background/internal/config"
	"github.com/iburimskiy/circuit-background/internal/loop"
	"github.com/iburimskiy/circuit-background/internal/scene"
	"github.com/iburimskiy/circuit-background/internal/surface/termsurf"
)

// termCommand previews the animation in the terminal.
func (c *CLI) termCommand() *cobra.Command {
	var fps int

	cmd := &cobra.Command{
		Use:   "term",
		Short: "Animate the background in the terminal",
		Long: `Animate the background in the terminal using true-colour half blocks.
Each cell stands for 8x16 pixels. The board is regenerated when the terminal
is resized. Press Esc, q or Ctrl-C to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if fps > 0 {
				cfg.Window.FPS = fps
			}
			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("init terminal: %w", err)
			}
			defer screen.Fini()
			return c.runTerm(cmd.Context(), screen, cfg)
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 30, "frames per second (0: window.fps)")
	return cmd
}

// termHost drives a scene on a tcell screen from a loop.Clock.
type termHost struct {
	screen tcell.Screen
	surf   *termsurf.Surface
	scene  *scene.Scene
	clock  *loop.Clock
	events chan tcell.Event
}

// runTerm takes over an initialised screen until the user quits or ctx ends.
func (c *CLI) runTerm(ctx context.Context, screen tcell.Screen, cfg config.Config) error {
	screen.HideCursor()
	h := &termHost{
		screen: screen,
		surf:   termsurf.New(screen, cfg.Style.Background.NRGBA),
		scene:  c.newScene(cfg),
		clock:  loop.FPS(cfg.Window.FPS),
		events: make(chan tcell.Event, 100),
	}
	h.scene.Resize(h.surf.Size())

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case h.events <- ev:
			case <-done:
				return
			}
		}
	}()

	c.Logger.Debug("terminal preview started", "fps", cfg.Window.FPS)
	return h.clock.Run(ctx, h)
}

// Step drains pending input, then updates and draws one frame.
func (h *termHost) Step(uint64) {
drain:
	for {
		select {
		case ev := <-h.events:
			if h.handle(ev) {
				h.clock.Stop()
				return
			}
		default:
			break drain
		}
	}

	h.scene.Update()
	h.scene.Draw(h.surf)
	h.surf.Show()
}

// handle reports whether the event asks to quit.
func (h *termHost) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return true
		}
		if ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q') {
			return true
		}
	case *tcell.EventResize:
		h.screen.Sync()
		if h.surf.Sync() {
			h.scene.Resize(h.surf.Size())
		}
	}
	return false
}
