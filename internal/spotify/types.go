package spotify

// Image is one rendition of artwork. Spotify orders image lists largest
// first.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type Artist struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	URI    string  `json:"uri"`
	Images []Image `json:"images"`
}

type Album struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	URI     string   `json:"uri"`
	Images  []Image  `json:"images"`
	Artists []Artist `json:"artists"`
}

type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	URI        string   `json:"uri"`
	DurationMS int      `json:"duration_ms"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
}

// CurrentlyPlaying is the active track plus playback progress. Item is nil
// when nothing is playing.
type CurrentlyPlaying struct {
	Item       *Track  `json:"item"`
	ProgressMS int     `json:"progress_ms"`
	IsPlaying  bool    `json:"is_playing"`
	Context    Context `json:"context"`
}

type Context struct {
	Type string `json:"type"`
	URI  string `json:"uri"`
}

type Device struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsActive bool   `json:"is_active"`
}

// PlaybackState is the full player state for the active device.
type PlaybackState struct {
	Device       Device  `json:"device"`
	ShuffleState bool    `json:"shuffle_state"`
	RepeatState  string  `json:"repeat_state"` // "track", "context" or "off"
	IsPlaying    bool    `json:"is_playing"`
	ProgressMS   int     `json:"progress_ms"`
	Item         *Track  `json:"item"`
	Context      Context `json:"context"`
}

type Queue struct {
	CurrentlyPlaying *Track  `json:"currently_playing"`
	Queue            []Track `json:"queue"`
}

type Playlist struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	URI    string  `json:"uri"`
	Images []Image `json:"images"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
	Owner struct {
		DisplayName string `json:"display_name"`
	} `json:"owner"`
}

type playlistPage struct {
	Items []Playlist `json:"items"`
	Total int        `json:"total"`
}

// PlaylistTracks is one page of a playlist's contents.
type PlaylistTracks struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URI    string `json:"uri"`
	Tracks struct {
		Items []struct {
			Track Track `json:"track"`
		} `json:"items"`
		Total int `json:"total"`
	} `json:"tracks"`
}

type savedTracksPage struct {
	Items []struct {
		Track Track `json:"track"`
	} `json:"items"`
	Total int `json:"total"`
}

type albumTracksPage struct {
	Items []Track `json:"items"`
}

// SearchResults holds whichever sections the search query asked for.
type SearchResults struct {
	Tracks  *trackPage  `json:"tracks"`
	Albums  *albumPage  `json:"albums"`
	Artists *artistPage `json:"artists"`
}

type trackPage struct {
	Items []Track `json:"items"`
}

type albumPage struct {
	Items []Album `json:"items"`
}

type artistPage struct {
	Items []Artist `json:"items"`
}

type devicesResponse struct {
	Devices []Device `json:"devices"`
}
