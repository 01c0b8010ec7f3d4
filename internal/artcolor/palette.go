package artcolor

import (
	"math"

	ui "github.com/gizak/termui/v3"
)

// PaletteEntry pairs a named terminal color with the reference RGB value used
// for nearest-color matching.
type PaletteEntry struct {
	Name string
	Ref  RGB
	Term ui.Color
}

// The reference values are tuned for matching, not display accuracy: pure
// primaries would pull too many mixed tones toward them.
var palette = []PaletteEntry{
	{"black", RGB{0, 0, 0}, ui.ColorBlack},
	{"red", RGB{220, 30, 30}, ui.ColorRed},
	{"green", RGB{30, 200, 30}, ui.ColorGreen},
	{"yellow", RGB{230, 220, 30}, ui.ColorYellow},
	{"blue", RGB{30, 30, 220}, ui.ColorBlue},
	{"magenta", RGB{210, 30, 210}, ui.ColorMagenta},
	{"cyan", RGB{30, 210, 210}, ui.ColorCyan},
	{"white", RGB{220, 220, 220}, ui.ColorWhite},
}

func whiteEntry() PaletteEntry {
	return palette[len(palette)-1]
}

// NearestPaletteColor maps an arbitrary color to the closest palette entry by
// perceptual distance. Black is never returned: a black border is invisible
// against a dark terminal background, so it remaps to white.
func NearestPaletteColor(c RGB) PaletteEntry {
	best := whiteEntry()
	minDist := math.Inf(1)

	for _, entry := range palette {
		if d := Distance(c, entry.Ref); d < minDist {
			minDist = d
			best = entry
		}
	}

	if best.Name == "black" {
		return whiteEntry()
	}
	return best
}
