// Package dashboard renders the terminal view of playback state: a
// now-playing pane, a scrolling log window and a status bar, all framed in a
// border whose color follows the current album art.
package dashboard

import (
	"fmt"
	"sync"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"resonify/internal/artcolor"
)

const (
	maxLogs    = 200
	animFrames = 20
)

// NowPlaying is the playback snapshot shown in the top pane.
type NowPlaying struct {
	Track      string
	Artists    string
	ProgressMS int
	DurationMS int
	Playing    bool
	Device     string
}

type Dashboard struct {
	refresh time.Duration

	mu              sync.Mutex
	border          ui.Color
	now             NowPlaying
	haveTrack       bool
	prevTrack       string
	animFrame       int
	logs            []string
	clientConnected bool
	clientID        string

	redrawCh  chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func New(refreshMS int) *Dashboard {
	if refreshMS <= 0 {
		refreshMS = 40
	}
	return &Dashboard{
		refresh:  time.Duration(refreshMS) * time.Millisecond,
		border:   ui.ColorWhite,
		redrawCh: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Run owns the terminal until the user quits with q or the dashboard is
// stopped. Redraws happen on a fixed cadence so text animation stays smooth
// regardless of how often state changes arrive.
func (d *Dashboard) Run() error {
	if err := ui.Init(); err != nil {
		return fmt.Errorf("init terminal ui: %w", err)
	}
	defer ui.Close()

	ticker := time.NewTicker(d.refresh)
	defer ticker.Stop()
	events := ui.PollEvents()

	d.render()
	for {
		select {
		case e := <-events:
			switch e.ID {
			case "q", "<C-c>":
				return nil
			case "r":
				ui.Clear()
				d.render()
			case "<Resize>":
				ui.Clear()
				d.render()
			}
		case <-ticker.C:
			d.advanceAnimation()
			d.render()
		case <-d.redrawCh:
			d.render()
		case <-d.done:
			return nil
		}
	}
}

// Stop ends Run from another goroutine.
func (d *Dashboard) Stop() {
	d.closeOnce.Do(func() { close(d.done) })
}

// AddLog appends a timestamped line to the log window.
func (d *Dashboard) AddLog(message string) {
	d.mu.Lock()
	line := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), message)
	d.logs = append(d.logs, line)
	if len(d.logs) > maxLogs {
		d.logs = d.logs[len(d.logs)-maxLogs:]
	}
	d.mu.Unlock()
	d.Redraw()
}

func (d *Dashboard) SetClientStatus(connected bool, clientID string) {
	d.mu.Lock()
	d.clientConnected = connected
	d.clientID = clientID
	d.mu.Unlock()
	d.Redraw()
}

// SetNowPlaying updates the top pane. A track change kicks off the carousel
// animation that slides the old title out and the new one in.
func (d *Dashboard) SetNowPlaying(np NowPlaying) {
	d.mu.Lock()
	if d.haveTrack && np.Track != d.now.Track {
		d.prevTrack = d.now.Track
		d.animFrame = 0
	}
	d.now = np
	d.haveTrack = np.Track != ""
	d.mu.Unlock()
}

// SetBorderColor applies a palette color to every pane border.
func (d *Dashboard) SetBorderColor(entry artcolor.PaletteEntry) {
	d.mu.Lock()
	d.border = entry.Term
	d.mu.Unlock()
}

// Redraw requests a render outside the refresh cadence. Never blocks; the
// next tick picks up the state anyway if a request is already pending.
func (d *Dashboard) Redraw() {
	select {
	case d.redrawCh <- struct{}{}:
	default:
	}
}

func (d *Dashboard) advanceAnimation() {
	d.mu.Lock()
	if d.prevTrack != "" && d.animFrame < animFrames {
		d.animFrame++
		if d.animFrame >= animFrames {
			d.prevTrack = ""
		}
	}
	d.mu.Unlock()
}

func (d *Dashboard) render() {
	d.mu.Lock()
	defer d.mu.Unlock()

	width, height := ui.TerminalDimensions()
	if width < 10 || height < 10 {
		return
	}
	style := ui.NewStyle(d.border)

	nowPane := widgets.NewParagraph()
	nowPane.Title = " Now Playing "
	nowPane.BorderStyle = style
	nowPane.SetRect(0, 0, width, 7)
	nowPane.Text = d.nowPlayingText(width - 4)

	logPane := widgets.NewList()
	logPane.Title = " Log "
	logPane.BorderStyle = style
	logPane.SetRect(0, 7, width, height-3)
	logPane.Rows = tailLines(d.logs, height-5)

	statusPane := widgets.NewParagraph()
	statusPane.BorderStyle = style
	statusPane.SetRect(0, height-3, width, height)
	statusPane.Text = d.statusText()

	ui.Render(nowPane, logPane, statusPane)
}

func (d *Dashboard) nowPlayingText(width int) string {
	if !d.haveTrack {
		return "\n" + centerText("Nothing playing", width)
	}

	title := carouselFrame(d.prevTrack, d.now.Track, width, d.animFrame, animFrames)
	artists := centerText(truncate(d.now.Artists, width), width)
	bar := progressLine(d.now.ProgressMS, d.now.DurationMS, width)

	state := "▶"
	if !d.now.Playing {
		state = "⏸"
	}
	return fmt.Sprintf("%s\n%s\n\n%s %s", title, artists, state, bar)
}

func (d *Dashboard) statusText() string {
	client := "no client connected"
	if d.clientConnected {
		client = "client " + d.clientID + " connected"
	}
	device := d.now.Device
	if device == "" {
		device = "-"
	}
	return fmt.Sprintf(" %s | device: %s | q quit, r redraw", client, device)
}

func tailLines(lines []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
