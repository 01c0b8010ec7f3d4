package artcolor

import "math"

// Minimum saturation for a color to count as "pigmented" at all.
const minSaturation = 0.15

// MostVibrant selects the color that reads best as a single accent color.
// Raw prevalence tends to pick background and neutral tones, so the score
// leans heavily on saturation, with a small prevalence term and a bonus for
// mid-range brightness. Very dark and washed-out near-white candidates are
// skipped outright. When no candidate clears the pigmentation gate the most
// prevalent input color is returned unmodified.
func MostVibrant(colors []ClusteredColor) RGB {
	if len(colors) == 0 {
		return RGB{255, 255, 255}
	}

	best := colors[0].Color
	maxScore := 0.0

	for _, cc := range colors {
		_, s, v := cc.Color.HSV()

		if v < 0.15 {
			debugf("skip dark color %v (v=%.2f)", cc.Color, v)
			continue
		}
		if s < 0.10 && v > 0.90 {
			debugf("skip near-white color %v (s=%.2f, v=%.2f)", cc.Color, s, v)
			continue
		}

		// Brightness bonus peaks at v=0.7, medium brightness.
		brightness := 1.0 - 0.5*math.Abs(v-0.7)
		score := 4.0*s*s + 0.3*cc.Fraction + 0.7*brightness

		if s >= minSaturation && score > maxScore {
			maxScore = score
			best = cc.Color
			debugf("new best color %v score=%.2f", cc.Color, score)
		}
	}

	return best
}
