package dashboard

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "▰"
	emptyBlock  = "▱"
)

// msToClock formats a millisecond duration as m:ss.
func msToClock(ms int) string {
	if ms < 0 {
		ms = 0
	}
	totalSeconds := ms / 1000
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}

// progressLine renders a block progress bar with elapsed and total time.
func progressLine(progressMS, durationMS, width int) string {
	clock := fmt.Sprintf("%s / %s", msToClock(progressMS), msToClock(durationMS))

	barWidth := width - len(clock) - 4
	if barWidth < 4 {
		return clock
	}

	filled := 0
	if durationMS > 0 {
		filled = barWidth * progressMS / durationMS
	}
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, barWidth-filled)
	return bar + " " + clock
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func centerText(text string, width int) string {
	runes := []rune(text)
	if len(runes) >= width {
		return truncate(text, width)
	}
	padding := (width - len(runes)) / 2
	return strings.Repeat(" ", padding) + text
}

// carouselFrame composes one animation frame of a track change: the old
// title slides from center off the left edge while the new one slides in
// from the right edge to center. frame counts from 0 to maxFrames; outside
// an active animation the current title renders centered.
func carouselFrame(prev, current string, width, frame, maxFrames int) string {
	if prev == "" || frame >= maxFrames || width <= 0 {
		return centerText(truncate(current, width), width)
	}

	progress := float64(frame) / float64(maxFrames)
	oldText := []rune(truncate(prev, width))
	newText := []rune(truncate(current, width))

	// Linear interpolation of both start columns.
	oldStart := (width - len(oldText)) / 2
	oldX := oldStart - int(progress*float64(oldStart+len(oldText)))

	newEnd := (width - len(newText)) / 2
	newX := width - int(progress*float64(width-newEnd))

	row := make([]rune, width)
	for i := range row {
		row[i] = ' '
	}
	placeRunes(row, oldText, oldX)
	placeRunes(row, newText, newX)
	return string(row)
}

// placeRunes copies text into row at column x, clipping at both edges.
func placeRunes(row, text []rune, x int) {
	for i, r := range text {
		col := x + i
		if col < 0 || col >= len(row) {
			continue
		}
		row[col] = r
	}
}
