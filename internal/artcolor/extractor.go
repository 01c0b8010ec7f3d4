package artcolor

import (
	"io"
	"net/http"
	"sync"
	"time"

	"resonify/internal/spotify"
)

const fetchTimeout = 5 * time.Second

// Cluster count for the full pipeline. The extracted color is computed once
// per URL and shared by the hex and border paths.
const clusterCount = 8

// BorderTarget is the dashboard surface the extractor colors. The extractor
// never draws; it sets the border color and requests a redraw.
type BorderTarget interface {
	SetBorderColor(PaletteEntry)
	Redraw()
}

// colorResult is one cached extraction: the vibrant RGB for textual display
// and its palette mapping for the border.
type colorResult struct {
	rgb   RGB
	entry PaletteEntry
}

// Extractor owns the per-URL color cache and the current border color, and
// runs the fetch→cluster→score→map pipeline off the caller's goroutine.
// Cache entries are write-once and live for the process lifetime; a failed
// extraction leaves the cache unpopulated so the next call retries.
type Extractor struct {
	client *http.Client
	target BorderTarget

	cache sync.Map // url -> colorResult

	mu      sync.Mutex
	current PaletteEntry
	applied bool
}

// NewExtractor creates an extractor that applies border colors to target.
// A nil target disables border updates but keeps hex lookups working.
func NewExtractor(target BorderTarget) *Extractor {
	return &Extractor{
		client: &http.Client{Timeout: fetchTimeout},
		target: target,
	}
}

// DominantColorHex returns the vibrant color extracted from the album art at
// url, formatted as "#rrggbb". The second return is false when the art could
// not be fetched.
func (e *Extractor) DominantColorHex(url string) (string, bool) {
	if url == "" {
		return "", false
	}
	res, ok := e.colorForURL(url)
	if !ok {
		return "", false
	}
	return res.rgb.Hex(), true
}

// CurrentColor returns the most recently applied border color. The second
// return is false until the first successful background update.
func (e *Extractor) CurrentColor() (PaletteEntry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current, e.applied
}

// ProcessCurrentTrack resolves album art for the active track and schedules a
// border-color update in the background. It returns immediately and silently
// no-ops when no album art is resolvable.
func (e *Extractor) ProcessCurrentTrack(track *spotify.CurrentlyPlaying) {
	if e.target == nil {
		return
	}
	url := albumArtURL(track)
	if url == "" {
		debugf("no album art on current track, skipping color update")
		return
	}
	go e.updateBorderColor(url)
}

// albumArtURL prefers the second image (Spotify orders sizes largest first,
// so index 1 is the medium variant) and falls back to the only one.
func albumArtURL(track *spotify.CurrentlyPlaying) string {
	if track == nil || track.Item == nil {
		return ""
	}
	images := track.Item.Album.Images
	switch {
	case len(images) > 1:
		return images[1].URL
	case len(images) == 1:
		return images[0].URL
	default:
		return ""
	}
}

// updateBorderColor runs the pipeline and applies the result. Overlapping
// runs race deliberately: the last writer wins, and every successful run
// forces a redraw even when the color is unchanged.
func (e *Extractor) updateBorderColor(url string) {
	entry := whiteEntry()
	if res, ok := e.colorForURL(url); ok {
		entry = res.entry
	}

	e.mu.Lock()
	e.current = entry
	e.applied = true
	e.mu.Unlock()

	debugf("applying border color %s for %s", entry.Name, url)
	e.target.SetBorderColor(entry)
	e.target.Redraw()
}

// colorForURL returns the extraction result for url, computing and caching it
// on first use. Fetch failures are not cached.
func (e *Extractor) colorForURL(url string) (colorResult, bool) {
	if v, ok := e.cache.Load(url); ok {
		return v.(colorResult), true
	}

	data := e.fetchAlbumArt(url)
	if data == nil {
		return colorResult{}, false
	}

	rgb := MostVibrant(DominantColors(data, clusterCount))
	res := colorResult{rgb: rgb, entry: NearestPaletteColor(rgb)}

	// Concurrent extractions for the same URL keep the first stored result.
	actual, _ := e.cache.LoadOrStore(url, res)
	return actual.(colorResult), true
}

// fetchAlbumArt downloads raw image bytes within the fetch timeout. Any
// failure (network error, timeout, non-2xx status) returns nil.
func (e *Extractor) fetchAlbumArt(url string) []byte {
	resp, err := e.client.Get(url)
	if err != nil {
		debugf("fetch album art %s: %v", url, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		debugf("fetch album art %s: HTTP %d", url, resp.StatusCode)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		debugf("read album art %s: %v", url, err)
		return nil
	}
	return data
}
