// Package canvas looks up Spotify Canvas loop videos through the public
// proxy endpoint, since the official API does not expose them.
package canvas

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const defaultBaseURL = "https://spotifycanvas-indol.vercel.app/api/canvas"

// Result is the canvas video and artist image found for a track.
type Result struct {
	CanvasURL      string
	ArtistImageURL string
}

// Client caches lookups per track ID, including misses, so each track is
// checked against the proxy at most once per process.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu      sync.Mutex
	checked map[string]*Result // nil value = checked, nothing found
}

func NewClient() *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		checked:    make(map[string]*Result),
	}
}

// Lookup returns the canvas data for a track, or nil when the track has
// none. Errors count as "nothing found" and are cached like any other miss.
func (c *Client) Lookup(trackID string) *Result {
	c.mu.Lock()
	if res, ok := c.checked[trackID]; ok {
		c.mu.Unlock()
		return res
	}
	c.mu.Unlock()

	res := c.fetch(trackID)

	c.mu.Lock()
	c.checked[trackID] = res
	c.mu.Unlock()
	return res
}

func (c *Client) fetch(trackID string) *Result {
	resp, err := c.httpClient.Get(fmt.Sprintf("%s?trackId=%s", c.baseURL, trackID))
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var payload struct {
		CanvasesList []struct {
			CanvasURL string `json:"canvasUrl"`
			Artist    struct {
				ArtistImgURL string `json:"artistImgUrl"`
			} `json:"artist"`
		} `json:"canvasesList"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil
	}
	if len(payload.CanvasesList) == 0 {
		return nil
	}

	first := payload.CanvasesList[0]
	return &Result{
		CanvasURL:      first.CanvasURL,
		ArtistImageURL: first.Artist.ArtistImgURL,
	}
}
