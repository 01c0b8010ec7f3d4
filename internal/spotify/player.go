package spotify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// CurrentlyPlaying returns the active track, or nil when nothing is playing.
func (c *Client) CurrentlyPlaying() (*CurrentlyPlaying, error) {
	cp := &CurrentlyPlaying{}
	err := c.get("/me/player/currently-playing", nil, cp)
	if err == errNoContent {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("currently playing: %w", err)
	}
	return cp, nil
}

// PlaybackState returns the player state for the active device, or nil when
// no device is active.
func (c *Client) PlaybackState() (*PlaybackState, error) {
	state := &PlaybackState{}
	err := c.get("/me/player", nil, state)
	if err == errNoContent {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("playback state: %w", err)
	}
	return state, nil
}

func (c *Client) Devices() ([]Device, error) {
	var resp devicesResponse
	if err := c.get("/me/player/devices", nil, &resp); err != nil {
		return nil, fmt.Errorf("devices: %w", err)
	}
	return resp.Devices, nil
}

func (c *Client) Next() error {
	return c.post("/me/player/next", nil)
}

func (c *Client) Previous() error {
	return c.post("/me/player/previous", nil)
}

func (c *Client) Seek(positionMS int) error {
	return c.put("/me/player/seek", url.Values{"position_ms": {strconv.Itoa(positionMS)}}, nil)
}

func (c *Client) Pause() error {
	return c.put("/me/player/pause", nil, nil)
}

// Resume continues playback of whatever is paused.
func (c *Client) Resume() error {
	return c.put("/me/player/play", nil, nil)
}

// PlayTracks starts playback of the given track URIs.
func (c *Client) PlayTracks(uris []string) error {
	return c.play(map[string]interface{}{"uris": uris})
}

// PlayContext starts playback inside a context (album, playlist, artist).
// offsetURI selects the starting track and may be empty.
func (c *Client) PlayContext(contextURI, offsetURI string) error {
	body := map[string]interface{}{"context_uri": contextURI}
	if offsetURI != "" {
		body["offset"] = map[string]string{"uri": offsetURI}
	}
	return c.play(body)
}

func (c *Client) play(body map[string]interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal play body: %w", err)
	}
	return c.put("/me/player/play", nil, bytes.NewReader(data))
}

func (c *Client) SetShuffle(on bool) error {
	return c.put("/me/player/shuffle", url.Values{"state": {strconv.FormatBool(on)}}, nil)
}

// SetRepeat sets the repeat state: "track", "context" or "off".
func (c *Client) SetRepeat(state string) error {
	return c.put("/me/player/repeat", url.Values{"state": {state}}, nil)
}

func (c *Client) Queue() (*Queue, error) {
	q := &Queue{}
	if err := c.get("/me/player/queue", nil, q); err != nil {
		return nil, fmt.Errorf("queue: %w", err)
	}
	return q, nil
}
