package artcolor

import (
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"resonify/internal/spotify"
)

// borderRecorder captures border updates for assertions.
type borderRecorder struct {
	mu      sync.Mutex
	applied []PaletteEntry
	redraws chan struct{}
}

func newBorderRecorder() *borderRecorder {
	return &borderRecorder{redraws: make(chan struct{}, 16)}
}

func (r *borderRecorder) SetBorderColor(entry PaletteEntry) {
	r.mu.Lock()
	r.applied = append(r.applied, entry)
	r.mu.Unlock()
}

func (r *borderRecorder) Redraw() {
	r.redraws <- struct{}{}
}

func (r *borderRecorder) waitRedraw(t *testing.T) {
	t.Helper()
	select {
	case <-r.redraws:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a border redraw")
	}
}

func (r *borderRecorder) last(t *testing.T) PaletteEntry {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.applied) == 0 {
		t.Fatal("no border color applied")
	}
	return r.applied[len(r.applied)-1]
}

func redImageServer(t *testing.T, fetches *atomic.Int32) *httptest.Server {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 60, 60))
	fillRect(img, img.Bounds(), color.NRGBA{R: 220, G: 5, B: 5, A: 255})
	data := encodePNG(t, img)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDominantColorHexFetchesOnce(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int32
	srv := redImageServer(t, &fetches)
	e := NewExtractor(nil)

	hex1, ok := e.DominantColorHex(srv.URL + "/art.png")
	if !ok {
		t.Fatal("first lookup failed")
	}
	hex2, ok := e.DominantColorHex(srv.URL + "/art.png")
	if !ok {
		t.Fatal("second lookup failed")
	}
	if hex1 != hex2 {
		t.Fatalf("cache returned different colors: %q vs %q", hex1, hex2)
	}
	if got := fetches.Load(); got != 1 {
		t.Fatalf("image fetched %d times, want 1", got)
	}
}

func TestDominantColorHexDistinctURLsAreDistinctEntries(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int32
	srv := redImageServer(t, &fetches)
	e := NewExtractor(nil)

	// Same artwork, different query strings: keys are exact URLs.
	e.DominantColorHex(srv.URL + "/art.png?size=300")
	e.DominantColorHex(srv.URL + "/art.png?size=64")
	if got := fetches.Load(); got != 2 {
		t.Fatalf("image fetched %d times, want 2 for distinct URLs", got)
	}
}

func TestDominantColorHexServerErrorNotCached(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	e := NewExtractor(nil)
	if _, ok := e.DominantColorHex(srv.URL); ok {
		t.Fatal("lookup against a failing server should report absent")
	}
	// A failed extraction must not populate the cache: the next call
	// retries the fetch.
	if _, ok := e.DominantColorHex(srv.URL); ok {
		t.Fatal("second lookup should also report absent")
	}
	if got := fetches.Load(); got != 2 {
		t.Fatalf("failing URL fetched %d times, want 2 (no caching)", got)
	}
}

func TestDominantColorHexTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	e := NewExtractor(nil)
	e.client.Timeout = 50 * time.Millisecond
	if _, ok := e.DominantColorHex(srv.URL); ok {
		t.Fatal("timed-out fetch should report absent")
	}
}

func TestDominantColorHexEmptyURL(t *testing.T) {
	t.Parallel()

	e := NewExtractor(nil)
	if _, ok := e.DominantColorHex(""); ok {
		t.Fatal("empty URL should report absent")
	}
}

func TestProcessCurrentTrackPrefersMediumImage(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int32
	srv := redImageServer(t, &fetches)

	var requested sync.Map
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested.Store(r.URL.Path, true)
		http.Redirect(w, r, srv.URL, http.StatusFound)
	}))
	t.Cleanup(proxy.Close)

	recorder := newBorderRecorder()
	e := NewExtractor(recorder)
	e.ProcessCurrentTrack(&spotify.CurrentlyPlaying{
		Item: &spotify.Track{
			Album: spotify.Album{Images: []spotify.Image{
				{URL: proxy.URL + "/large.png", Width: 640},
				{URL: proxy.URL + "/medium.png", Width: 300},
				{URL: proxy.URL + "/small.png", Width: 64},
			}},
		},
	})
	recorder.waitRedraw(t)

	if _, ok := requested.Load("/medium.png"); !ok {
		t.Fatal("expected the medium (index 1) image to be fetched")
	}
	if _, ok := requested.Load("/large.png"); ok {
		t.Fatal("the large image should not be fetched")
	}
	if got := recorder.last(t); got.Name != "red" {
		t.Fatalf("applied border %q, want red", got.Name)
	}
}

func TestProcessCurrentTrackNoArtIsNoOp(t *testing.T) {
	t.Parallel()

	recorder := newBorderRecorder()
	e := NewExtractor(recorder)

	e.ProcessCurrentTrack(nil)
	e.ProcessCurrentTrack(&spotify.CurrentlyPlaying{})
	e.ProcessCurrentTrack(&spotify.CurrentlyPlaying{Item: &spotify.Track{}})

	select {
	case <-recorder.redraws:
		t.Fatal("no-op track updates must not trigger a redraw")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestProcessCurrentTrackFetchFailureAppliesWhite(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	recorder := newBorderRecorder()
	e := NewExtractor(recorder)
	e.ProcessCurrentTrack(&spotify.CurrentlyPlaying{
		Item: &spotify.Track{
			Album: spotify.Album{Images: []spotify.Image{{URL: srv.URL}}},
		},
	})
	recorder.waitRedraw(t)

	if got := recorder.last(t); got.Name != "white" {
		t.Fatalf("failed fetch applied %q, want the white default", got.Name)
	}
	if _, applied := e.CurrentColor(); !applied {
		t.Fatal("current color should be marked applied after an update")
	}
}

func TestConcurrentExtractions(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int32
	srv := redImageServer(t, &fetches)

	recorder := newBorderRecorder()
	recorder.redraws = make(chan struct{}, 256)
	e := NewExtractor(recorder)

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			url := srv.URL + "/art.png?id=" + string(rune('a'+n))
			e.updateBorderColor(url)
			if _, ok := e.DominantColorHex(url); !ok {
				t.Errorf("lookup for worker %d failed", n)
			}
		}(i)
	}
	wg.Wait()

	if _, applied := e.CurrentColor(); !applied {
		t.Fatal("current color should be applied after concurrent updates")
	}
}
