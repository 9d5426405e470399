package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// loadColor maps a frame time against its budget onto green (idle) through
// red (over budget).
func loadColor(d, budget time.Duration) color.Color {
	load := 0.0
	if budget > 0 {
		load = clamp01(float64(d) / float64(budget))
	}
	return colorful.Hsv(120*(1-load), 0.8, 0.9)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
