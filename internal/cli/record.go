package cli

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"

	"github.com/icza/mjpeg"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/circuit-background/internal/surface/raster"
)

// recordCommand renders an animation to an MJPEG AVI file.
func (c *CLI) recordCommand() *cobra.Command {
	var (
		vp      viewport
		frames  int
		fps     int
		warmup  int
		quality int
		output  string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Render an animation to MJPEG AVI",
		Long: `Generate a board and write --frames consecutive frames as a Motion-JPEG
AVI clip. Frames are rendered as fast as possible; --fps only sets the
playback rate stored in the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRecord(cmd.Context(), vp, frames, fps, warmup, quality, output)
		},
	}
	vp.register(cmd)
	cmd.Flags().IntVar(&frames, "frames", 300, "frames to record")
	cmd.Flags().IntVar(&fps, "fps", 0, "playback rate (default: window.fps)")
	cmd.Flags().IntVar(&warmup, "warmup", 60, "updates to run before the first frame")
	cmd.Flags().IntVarP(&quality, "quality", "q", 85, "JPEG quality 1-100")
	cmd.Flags().StringVarP(&output, "output", "o", "circuit.avi", "output file")
	return cmd
}

func (c *CLI) runRecord(ctx context.Context, vp viewport, frames, fps, warmup, quality int, output string) error {
	if frames <= 0 {
		return fmt.Errorf("--frames must be positive, got %d", frames)
	}
	if quality < 1 || quality > 100 {
		return fmt.Errorf("--quality must be in 1-100, got %d", quality)
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if fps <= 0 {
		fps = cfg.Window.FPS
	}
	w, h := vp.resolve(cfg)
	prog := newProgress(c.Logger)

	sc := c.newScene(cfg)
	sc.Resize(w, h)
	if err := advance(ctx, sc, warmup); err != nil {
		return err
	}

	aw, err := mjpeg.New(output, int32(w), int32(h), int32(fps))
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	closed := false
	defer func() {
		if !closed {
			aw.Close()
		}
	}()

	surf := raster.New(w, h, cfg.Style.Background.NRGBA)
	opts := &jpeg.Options{Quality: quality}
	var buf bytes.Buffer
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		sc.Update()
		sc.Draw(surf)

		buf.Reset()
		if err := jpeg.Encode(&buf, surf.Image(), opts); err != nil {
			return fmt.Errorf("encode frame %d: %w", i, err)
		}
		if err := aw.AddFrame(buf.Bytes()); err != nil {
			return fmt.Errorf("write frame %d: %w", i, err)
		}
		if (i+1)%fps == 0 {
			c.Logger.Debug("recording", "frame", i+1, "of", frames)
		}
	}

	closed = true
	if err := aw.Close(); err != nil {
		return fmt.Errorf("finish %s: %w", output, err)
	}

	prog.done(fmt.Sprintf("Recorded %d frames at %dx%d", frames, w, h))
	printSuccess(c.out, "Recording complete")
	printFile(c.out, output)
	return nil
}
