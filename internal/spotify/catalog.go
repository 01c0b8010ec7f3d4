package spotify

import (
	"fmt"
	"net/url"
	"strconv"
)

// Search queries the catalog. types is a comma-separated list of "track",
// "album" and "artist".
func (c *Client) Search(query, types string) (*SearchResults, error) {
	results := &SearchResults{}
	q := url.Values{
		"q":      {query},
		"type":   {types},
		"market": {"US"},
	}
	if err := c.get("/search", q, results); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return results, nil
}

// Playlists returns the user's playlists.
func (c *Client) Playlists() ([]Playlist, error) {
	var page playlistPage
	if err := c.get("/me/playlists", url.Values{"limit": {"50"}}, &page); err != nil {
		return nil, fmt.Errorf("playlists: %w", err)
	}
	return page.Items, nil
}

// PlaylistTracks returns one page of a playlist's contents.
func (c *Client) PlaylistTracks(playlistID string, offset int) (*PlaylistTracks, error) {
	pl := &PlaylistTracks{}
	q := url.Values{"offset": {strconv.Itoa(offset)}}
	if err := c.get("/playlists/"+playlistID, q, pl); err != nil {
		return nil, fmt.Errorf("playlist %s: %w", playlistID, err)
	}
	return pl, nil
}

// SavedTracks returns one page of the user's Liked Songs.
func (c *Client) SavedTracks(offset int) ([]Track, int, error) {
	var page savedTracksPage
	q := url.Values{"offset": {strconv.Itoa(offset)}, "limit": {"50"}}
	if err := c.get("/me/tracks", q, &page); err != nil {
		return nil, 0, fmt.Errorf("saved tracks: %w", err)
	}
	tracks := make([]Track, 0, len(page.Items))
	for _, item := range page.Items {
		tracks = append(tracks, item.Track)
	}
	return tracks, page.Total, nil
}

func (c *Client) Album(albumID string) (*Album, error) {
	album := &Album{}
	if err := c.get("/albums/"+albumID, nil, album); err != nil {
		return nil, fmt.Errorf("album %s: %w", albumID, err)
	}
	return album, nil
}

func (c *Client) AlbumTracks(albumID string) ([]Track, error) {
	var page albumTracksPage
	if err := c.get("/albums/"+albumID+"/tracks", url.Values{"limit": {"50"}}, &page); err != nil {
		return nil, fmt.Errorf("album tracks %s: %w", albumID, err)
	}
	return page.Items, nil
}

func (c *Client) Artist(artistID string) (*Artist, error) {
	artist := &Artist{}
	if err := c.get("/artists/"+artistID, nil, artist); err != nil {
		return nil, fmt.Errorf("artist %s: %w", artistID, err)
	}
	return artist, nil
}

func (c *Client) ArtistTopTracks(artistID string) ([]Track, error) {
	// This endpoint wraps the list in "tracks" rather than a paging object.
	var resp struct {
		Tracks []Track `json:"tracks"`
	}
	q := url.Values{"market": {"US"}}
	if err := c.get("/artists/"+artistID+"/top-tracks", q, &resp); err != nil {
		return nil, fmt.Errorf("artist top tracks %s: %w", artistID, err)
	}
	return resp.Tracks, nil
}

func (c *Client) ArtistAlbums(artistID string) ([]Album, error) {
	var page albumPage
	q := url.Values{"limit": {"50"}}
	if err := c.get("/artists/"+artistID+"/albums", q, &page); err != nil {
		return nil, fmt.Errorf("artist albums %s: %w", artistID, err)
	}
	return page.Items, nil
}
