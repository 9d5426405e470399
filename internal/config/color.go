package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a straight-alpha colour written as "#RRGGBB" or "#RRGGBBAA".
type Color struct {
	color.NRGBA
}

// Hex builds a Color from a hex string and panics on malformed input. Only
// meant for literals.
func Hex(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseColor parses "#RRGGBB", "#RGB" or "#RRGGBBAA".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	alpha := uint8(0xFF)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("colour %q: bad alpha: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{color.NRGBA{R: r, G: g, B: b, A: alpha}}, nil
}

// WithAlpha returns c with its alpha multiplied by a in [0, 1].
func (c Color) WithAlpha(a float64) color.NRGBA {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	n := c.NRGBA
	n.A = uint8(float64(n.A)*a + 0.5)
	return n
}

func (c Color) String() string {
	if c.A == 0xFF {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
