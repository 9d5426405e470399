package cli

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/circuit-background/internal/config"
	"github.com/iburimskiy/circuit-background/internal/scene"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c.SetOutput(&out)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func quietCLI() *CLI {
	return New(io.Discard, LogInfo)
}

func TestLayoutCommand(t *testing.T) {
	out, err := execute(t, quietCLI(), "layout", "--width", "1920", "--height", "1080", "--seed", "7")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	for _, want := range []string{"Board 1920x1080", "64x36 cells of 30px", "chips", "traces", "occupied"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLayoutSameSeedSameBoard(t *testing.T) {
	stable := func(out string) string {
		var keep []string
		for _, l := range strings.Split(out, "\n") {
			if !strings.Contains(l, "generated in") {
				keep = append(keep, l)
			}
		}
		return strings.Join(keep, "\n")
	}
	a, err := execute(t, quietCLI(), "layout", "--seed", "42")
	if err != nil {
		t.Fatal(err)
	}
	b, err := execute(t, quietCLI(), "layout", "--seed", "42")
	if err != nil {
		t.Fatal(err)
	}
	if stable(a) != stable(b) {
		t.Fatalf("same seed, different boards:\n%s\n---\n%s", a, b)
	}
}

func TestLayoutUsesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "circuit.toml")
	if err := os.WriteFile(path, []byte("[layout]\ngrid_size = 20\n[window]\nwidth = 400\nheight = 200\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, quietCLI(), "layout", "--config", path, "--seed", "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "20x10 cells of 20px") {
		t.Fatalf("config not applied:\n%s", out)
	}
}

func TestMissingConfigFails(t *testing.T) {
	_, err := execute(t, quietCLI(), "layout", "--config", filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestSnapshotWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	out, err := execute(t, quietCLI(), "snapshot", "--width", "320", "--height", "200", "--frames", "10", "--seed", "3", "-o", path)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("output does not name the file:\n%s", out)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 200 {
		t.Fatalf("image bounds %v", b)
	}
}

func TestRecordWritesAVI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.avi")
	_, err := execute(t, quietCLI(), "record",
		"--width", "64", "--height", "48",
		"--frames", "3", "--warmup", "0", "--fps", "10",
		"--seed", "5", "-o", path)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 12 || string(data[:4]) != "RIFF" || string(data[8:12]) != "AVI " {
		t.Fatalf("not an AVI file: % x", data[:min(len(data), 12)])
	}
}

func TestRecordRejectsBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero frames", []string{"--frames", "0"}},
		{"quality too high", []string{"--quality", "101"}},
		{"quality zero", []string{"--quality", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "clip.avi")
			args := append([]string{"record", "-o", path}, tt.args...)
			if _, err := execute(t, quietCLI(), args...); err == nil {
				t.Fatal("expected an error")
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Fatalf("rejected run left a file behind: %v", err)
			}
		})
	}
}

func TestWindowWithoutHost(t *testing.T) {
	_, err := execute(t, quietCLI(), "window")
	if !errors.Is(err, ErrNoWindow) {
		t.Fatalf("err=%v want ErrNoWindow", err)
	}
}

func TestWindowHostGetsSizeAndScene(t *testing.T) {
	c := quietCLI()
	var (
		got      config.Config
		gotScene *scene.Scene
		gotDebug bool
	)
	c.Window = func(ctx context.Context, sc *scene.Scene, cfg config.Config, logger *log.Logger, debug bool) error {
		got, gotScene, gotDebug = cfg, sc, debug
		return nil
	}
	if _, err := execute(t, c, "window", "--width", "800", "--height", "600", "--debug"); err != nil {
		t.Fatal(err)
	}
	if got.Window.Width != 800 || got.Window.Height != 600 {
		t.Fatalf("window size %dx%d", got.Window.Width, got.Window.Height)
	}
	if gotScene == nil || !gotDebug {
		t.Fatalf("scene=%v debug=%v", gotScene, gotDebug)
	}
}

func TestTermQuitsOnEscape(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(40, 12)
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := quietCLI()
	cfg := config.Default()
	cfg.Window.FPS = 120
	if err := c.runTerm(ctx, screen, cfg); err != nil {
		t.Fatalf("runTerm: %v", err)
	}
}

func TestTermStopsOnCancel(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(40, 12)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := quietCLI().runTerm(ctx, screen, config.Default())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err=%v want deadline exceeded", err)
	}
	r, _, _, _ := screen.GetContent(0, 0)
	if r == ' ' || r == 0 {
		t.Fatal("nothing was drawn to the terminal")
	}
}
