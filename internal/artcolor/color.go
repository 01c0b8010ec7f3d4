package artcolor

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit-per-channel color value.
type RGB struct {
	R, G, B uint8
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// HSV returns hue, saturation and value, each normalized to [0,1].
// Hue is circular: 0 and 1 are the same angle.
func (c RGB) HSV() (h, s, v float64) {
	h, s, v = c.colorful().Hsv()
	return h / 360, s, v
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return c.colorful().Hex()
}

// Distance is the perceptual distance between two colors, computed in HSV
// space. Hue carries most of the weight since it best preserves perceived
// color identity; saturation and value are secondary.
func Distance(a, b RGB) float64 {
	h1, s1, v1 := a.HSV()
	h2, s2, v2 := b.HSV()

	hueDist := math.Abs(h1 - h2)
	if hueDist > 0.5 {
		hueDist = 1 - hueDist
	}

	return 0.6*hueDist + 0.3*math.Abs(s1-s2) + 0.1*math.Abs(v1-v2)
}
