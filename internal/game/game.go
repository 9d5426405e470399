// Package game hosts the circuit background in an ebiten window.
package game

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/circuit-background/internal/config"
	"github.com/iburimskiy/circuit-background/internal/scene"
	"github.com/iburimskiy/circuit-background/internal/surface/ebitensurf"
)

const (
	frameRingSize = 240

	// Overlay graph dimensions
	graphX      = 12
	graphY      = 96
	graphHeight = 40
	barWidth    = 1
)

// Game implements ebiten.Game around a scene.
type Game struct {
	ctx    context.Context
	scene  *scene.Scene
	surf   *ebitensurf.Surface
	logger *log.Logger
	cfg    config.WindowConfig

	// viewport
	width, height int

	// overlay
	debug      bool
	frames     *frameRing
	started    time.Time
	lastUpdate time.Time

	// state
	paused bool
}

// New returns a game drawing sc. The window closes when ctx is done.
func New(ctx context.Context, sc *scene.Scene, cfg config.Config, logger *log.Logger, debug bool) *Game {
	if logger == nil {
		logger = log.Default()
	}
	return &Game{
		ctx:     ctx,
		scene:   sc,
		surf:    ebitensurf.New(cfg.Style.Background.NRGBA),
		logger:  logger,
		cfg:     cfg.Window,
		debug:   debug,
		frames:  newFrameRing(frameRingSize),
		started: time.Now(),
	}
}

// Run opens the window and blocks until it is closed.
func (g *Game) Run() error {
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.cfg.FPS)

	g.logger.Info("opening window", "size", fmt.Sprintf("%dx%d", g.cfg.Width, g.cfg.Height), "fps", g.cfg.FPS)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

func (g *Game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.debug = !g.debug
	}

	now := time.Now()
	if !g.lastUpdate.IsZero() {
		g.frames.push(now.Sub(g.lastUpdate))
	}
	g.lastUpdate = now

	if !g.paused {
		g.scene.Update()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.surf.Target(screen)
	g.scene.Draw(g.surf)

	if g.debug {
		g.drawOverlay(screen)
	}
}

// Layout regenerates the board whenever the window size changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.scene.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func (g *Game) drawOverlay(screen *ebiten.Image) {
	st := g.scene.Stats()
	spawned, retired := g.scene.Counters()
	status := "running"
	if g.paused {
		status = "paused"
	}
	lines := []string{
		fmt.Sprintf("%s  %s  tps %.0f  fps %.0f", status, formatDuration(time.Since(g.started)), ebiten.ActualTPS(), ebiten.ActualFPS()),
		fmt.Sprintf("grid %dx%d  chips %d  traces %d", st.Cols, st.Rows, st.Chips, st.Traces),
		fmt.Sprintf("pulses %d  spawned %d  retired %d", len(g.scene.Pulses()), spawned, retired),
		fmt.Sprintf("frame %.2fms  Space pause  D overlay  Esc quit", float64(g.frames.mean().Microseconds())/1000),
	}
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, graphX, 12+i*16)
	}
	g.drawFrameGraph(screen)
}

// drawFrameGraph plots recent frame times as bars scaled to twice the tick
// budget.
func (g *Game) drawFrameGraph(screen *ebiten.Image) {
	budget := time.Second / time.Duration(max(g.cfg.FPS, 1))
	samples := g.frames.snapshot(frameRingSize)

	vector.DrawFilledRect(screen, graphX, graphY, frameRingSize*barWidth, graphHeight, color.RGBA{R: 20, G: 25, B: 35, A: 200}, false)
	for i, d := range samples {
		h := float32(clamp01(float64(d)/float64(2*budget)) * graphHeight)
		x := float32(graphX + i*barWidth)
		vector.DrawFilledRect(screen, x, graphY+graphHeight-h, barWidth, h, loadColor(d, 2*budget), false)
	}
	// budget line
	vector.StrokeLine(screen, graphX, graphY+graphHeight/2, graphX+frameRingSize*barWidth, graphY+graphHeight/2, 1, color.RGBA{R: 100, G: 110, B: 130, A: 100}, false)
	vector.StrokeRect(screen, graphX, graphY, frameRingSize*barWidth, graphHeight, 1, color.RGBA{R: 60, G: 70, B: 90, A: 255}, false)
}
