package spotify

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// testClient returns a client pointed at a fake API with a non-expiring
// token already in place.
func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("id", "secret", "http://localhost:8000/callback", "")
	c.apiBase = srv.URL
	c.token = &token{
		AccessToken:  "test-token",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	}
	return c
}

func TestCurrentlyPlayingDecodesTrack(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/player/currently-playing" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization header = %q", got)
		}
		w.Write([]byte(`{
			"is_playing": true,
			"progress_ms": 12345,
			"item": {
				"id": "t1",
				"name": "Song",
				"uri": "spotify:track:t1",
				"duration_ms": 200000,
				"artists": [{"id": "a1", "name": "Artist"}],
				"album": {
					"id": "al1",
					"name": "Album",
					"images": [
						{"url": "https://img/640", "width": 640, "height": 640},
						{"url": "https://img/300", "width": 300, "height": 300}
					]
				}
			}
		}`))
	}))

	cp, err := c.CurrentlyPlaying()
	if err != nil {
		t.Fatalf("CurrentlyPlaying() error = %v", err)
	}
	if cp == nil || cp.Item == nil {
		t.Fatal("expected a track")
	}
	if cp.Item.Name != "Song" || !cp.IsPlaying || cp.ProgressMS != 12345 {
		t.Fatalf("unexpected decode: %+v", cp)
	}
	if len(cp.Item.Album.Images) != 2 || cp.Item.Album.Images[1].URL != "https://img/300" {
		t.Fatalf("unexpected album images: %+v", cp.Item.Album.Images)
	}
}

func TestCurrentlyPlayingNoContent(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cp, err := c.CurrentlyPlaying()
	if err != nil {
		t.Fatalf("CurrentlyPlaying() error = %v", err)
	}
	if cp != nil {
		t.Fatalf("expected nil for 204, got %+v", cp)
	}
}

func TestPauseSendsPut(t *testing.T) {
	t.Parallel()

	var method, path string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := c.Pause(); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if method != "PUT" || path != "/me/player/pause" {
		t.Fatalf("request = %s %s, want PUT /me/player/pause", method, path)
	}
}

func TestPlayContextBody(t *testing.T) {
	t.Parallel()

	var body []byte
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := c.PlayContext("spotify:album:x", "spotify:track:y"); err != nil {
		t.Fatalf("PlayContext() error = %v", err)
	}
	got := string(body)
	for _, want := range []string{`"context_uri":"spotify:album:x"`, `"spotify:track:y"`} {
		if !strings.Contains(got, want) {
			t.Fatalf("body %q missing %q", got, want)
		}
	}
}

func TestAPIErrorSurfaced(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"status":404,"message":"No active device"}}`, http.StatusNotFound)
	}))

	if err := c.Next(); err == nil {
		t.Fatal("Next() should surface the API error")
	}
}

func TestSearchQueryEncoding(t *testing.T) {
	t.Parallel()

	var rawQuery string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.Write([]byte(`{"tracks":{"items":[]}}`))
	}))

	if _, err := c.Search("daft punk", "track,album"); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for _, want := range []string{"q=daft+punk", "type=track%2Calbum", "market=US"} {
		if !strings.Contains(rawQuery, want) {
			t.Fatalf("query %q missing %q", rawQuery, want)
		}
	}
}
