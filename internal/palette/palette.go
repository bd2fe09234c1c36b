// Package palette handles the editor's color values: "#RRGGBB" strings as
// stored in documents, preset swatches, HSL picking and recent colors.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidColor = errors.New("invalid color")

// None is the stored value for "no paint".
const None = "none"

// Presets are the swatches offered by the color picker.
var Presets = []string{
	"#FF6B6B", "#4ECDC4", "#FFE66D", "#95E1D3", "#FFA502",
	"#EE5A6F", "#54A0FF", "#2A2D3A", "#FFFFFF", "#000000",
	"#FF9FF3", "#5F27CD", "#00D2D3", "#FF9F43", "#FD79A8",
	"#6C5CE7", "#A29BFE", "#74B9FF", "#00CEC9",
}

// Parse decodes "#RGB", "#RRGGBB" or "#RRGGBBAA". An empty string, "none"
// and "transparent" decode to fully transparent.
func Parse(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", None, "transparent":
		return color.NRGBA{}, nil
	}
	if !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "FF"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustParse is Parse for colors that were already validated. Invalid input
// yields transparent.
func MustParse(s string) color.NRGBA {
	c, _ := Parse(s)
	return c
}

// Normalize validates s and returns it in canonical upper-case form.
func Normalize(s string) (string, error) {
	c, err := Parse(s)
	if err != nil {
		return "", err
	}
	if c.A == 0 {
		return None, nil
	}
	return Hex(c), nil
}

// Hex formats c as "#RRGGBB", or "#RRGGBBAA" when c is not opaque.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xFF {
		return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", n.R, n.G, n.B, n.A)
}

// FromHSL converts hue in degrees and saturation and lightness in percent to
// an opaque hex color.
func FromHSL(h, s, l float64) string {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s = clamp(s, 0, 100) / 100
	l = clamp(l, 0, 100) / 100

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return Hex(color.NRGBA{R: channel(r + m), G: channel(g + m), B: channel(b + m), A: 0xFF})
}

// WithOpacity scales the alpha of c by opacity in [0,1].
func WithOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * clamp(opacity, 0, 1)))
	return c
}

func channel(v float64) uint8 {
	return uint8(math.Round(clamp(v, 0, 1) * 255))
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
