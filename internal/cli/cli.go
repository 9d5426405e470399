// Package cli implements the circuitbg command-line interface.
//
// # Commands
//
//   - window: animated background in a resizable window
//   - term: animated preview in the terminal
//   - snapshot: render one frame to PNG
//   - record: render an MJPEG AVI clip
//   - layout: generate a board and print its statistics
//
// All commands accept --config (TOML overrides), --seed (0 picks one from the
// clock) and --verbose.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/circuit-background/internal/config"
	"github.com/iburimskiy/circuit-background/internal/rng"
	"github.com/iburimskiy/circuit-background/internal/scene"
)

const appName = "circuitbg"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ErrNoWindow is returned by the window command when no window host is set.
var ErrNoWindow = errors.New("window host not available")

// WindowFunc opens a window showing sc until ctx is done or the user quits.
type WindowFunc func(ctx context.Context, sc *scene.Scene, cfg config.Config, logger *log.Logger, debug bool) error

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	// Window hosts the window command. main wires it so this package stays
	// free of graphics drivers.
	Window WindowFunc

	out        io.Writer
	configPath string
	seed       uint64
}

// New creates a new CLI instance logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output (not logs).
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Procedural circuit-board background",
		Long:         `circuitbg generates a printed-circuit-board pattern of chips and traces sized to a viewport and animates glowing pulses along the traces.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML file overriding the default look")
	root.PersistentFlags().Uint64Var(&c.seed, "seed", 0, "random seed (0 picks one from the clock)")

	root.AddCommand(c.windowCommand())
	root.AddCommand(c.termCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.recordCommand())
	root.AddCommand(c.layoutCommand())

	return root
}

func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath, c.Logger)
}

// newScene builds a scene from cfg seeded with --seed.
func (c *CLI) newScene(cfg config.Config) *scene.Scene {
	if c.seed != 0 {
		c.Logger.Debug("using fixed seed", "seed", c.seed)
	}
	return scene.New(cfg, rng.New(c.seed), c.Logger)
}
