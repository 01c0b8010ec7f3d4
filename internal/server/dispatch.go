package server

import (
	"fmt"
	"strconv"
	"strings"

	"resonify/internal/spotify"
)

func (s *Server) dispatch(command, data string) string {
	switch command {
	case "current_info":
		return s.currentInfo(true)
	case "current_track":
		return s.currentInfo(false)
	case "current_states":
		return s.playbackStates(nil)

	case "next", "previous", "play":
		return s.modifyTrack(command, data)

	case "pause", "resume", "shuffle", "repeat":
		return s.modifyStates(command)

	case "list_playlists", "search", "list_queue":
		return s.listStuff(command, data)

	case "display_album", "display_playlist", "display_artist":
		return s.displayInfo(command, data)

	case "get_canvas_video", "get_artist_image", "get_track_color":
		return s.mediaRequest(command)
	}

	s.dash.AddLog("Unknown command: " + command)
	return "[ERROR] Unknown command"
}

// currentInfo reports the active track, optionally followed by the playback
// states, plus canvas, artist image and track color lines when available.
// A track change also kicks off the border-color update.
func (s *Server) currentInfo(includeStates bool) string {
	cp, err := s.api.CurrentlyPlaying()
	if err != nil || cp == nil || cp.Item == nil {
		s.dash.AddLog("No current song active")
		return "[ERROR] No current song active"
	}
	track := cp.Item

	s.mu.Lock()
	trackChanged := track.ID != s.currentTrackID
	s.currentTrackID = track.ID
	s.mu.Unlock()

	if trackChanged {
		s.colors.ProcessCurrentTrack(cp)
	}

	lines := []string{
		"TRACK:" + track.Name,
		"ARTISTS:" + joinArtists(track.Artists),
		"ALBUM:" + track.Album.Name,
		"TRACK_URI:" + track.URI,
		"DURATION_MS:" + strconv.Itoa(track.DurationMS),
		"PROGRESS_MS:" + strconv.Itoa(cp.ProgressMS),
	}
	if len(track.Album.Images) > 0 {
		lines = append(lines, "ALBUM_ART_URL:"+track.Album.Images[0].URL)
	}
	if includeStates {
		lines = append(lines, s.playbackStates(nil))
	}

	if canvas := s.canvas.Lookup(track.ID); canvas != nil && canvas.CanvasURL != "" {
		if trackChanged {
			s.dash.AddLog("Canvas found for current song")
		}
		lines = append(lines, "CANVAS_URL:"+canvas.CanvasURL)
	} else if trackChanged {
		s.dash.AddLog("No canvas found for current song")
	}

	if imgURL := s.artistImage(track.Artists); imgURL != "" {
		lines = append(lines, "ARTIST_IMG_URL:"+imgURL)
	}

	if len(track.Album.Images) > 0 {
		if hex, ok := s.colors.DominantColorHex(track.Album.Images[0].URL); ok {
			if trackChanged {
				s.dash.AddLog("Track color: " + hex)
			}
			lines = append(lines, "TRACK_COLOR:"+hex)
		}
	}

	return strings.Join(lines, "\n")
}

// statesOverride carries values the API may not reflect yet right after a
// modification; non-nil fields replace what the player reports.
type statesOverride struct {
	playing *bool
	shuffle *bool
	repeat  *string
}

func (s *Server) playbackStates(override *statesOverride) string {
	state, err := s.api.PlaybackState()
	if err != nil || state == nil {
		s.dash.AddLog("Error getting playback states")
		return "[ERROR] Error getting playback states"
	}

	playing := state.IsPlaying
	shuffle := state.ShuffleState
	repeat := state.RepeatState
	if override != nil {
		if override.playing != nil {
			playing = *override.playing
		}
		if override.shuffle != nil {
			shuffle = *override.shuffle
		}
		if override.repeat != nil {
			repeat = *override.repeat
		}
	}

	return fmt.Sprintf("PLAYING:%s\nSHUFFLE:%s\nREPEAT:%s\nDEVICE:%s",
		capitalize(strconv.FormatBool(playing)),
		capitalize(strconv.FormatBool(shuffle)),
		capitalize(repeat),
		state.Device.Name)
}

func (s *Server) modifyTrack(command, data string) string {
	switch command {
	case "next":
		if err := s.api.Next(); err != nil {
			s.dash.AddLog("Error going to next song: " + err.Error())
			return "[ERROR] Error going to next song"
		}
		s.dash.AddLog("Next track")
		return "[NEXT SONG]"

	case "previous":
		// Early in a track, go back one; otherwise restart the current one.
		state, err := s.api.PlaybackState()
		if err == nil && state != nil && state.ProgressMS > 4000 {
			err = s.api.Seek(0)
		} else if err == nil {
			err = s.api.Previous()
		}
		if err != nil {
			s.dash.AddLog("Error going to previous song: " + err.Error())
			return "[ERROR] Error going to previous song"
		}
		s.dash.AddLog("Previous track")
		return "[PREVIOUS SONG]"

	case "play":
		return s.play(data)
	}
	return "[ERROR] Unknown command"
}

// play starts playback of whatever the remote client selected. The data
// format depends on what it is currently viewing:
//
//	search:         "track <uri>"
//	queue:          "<offset uri>" (context comes from the active playback)
//	playlist/album: "<context uri> [<offset uri>]"
func (s *Server) play(data string) string {
	fields := strings.Fields(data)
	if len(fields) == 0 {
		return "[ERROR] Error playing song"
	}

	s.mu.Lock()
	display := s.display
	s.mu.Unlock()

	var err error
	switch display {
	case "search":
		if fields[0] == "track" && len(fields) > 1 {
			err = s.api.PlayTracks([]string{fields[1]})
		} else {
			err = fmt.Errorf("unplayable selection")
		}

	case "queue":
		cp, cpErr := s.api.CurrentlyPlaying()
		if cpErr != nil || cp == nil {
			err = fmt.Errorf("no active context")
		} else {
			err = s.api.PlayContext(cp.Context.URI, fields[len(fields)-1])
		}

	case "playlist", "album":
		if len(fields) >= 2 {
			offset := ""
			if len(fields) >= 3 {
				offset = fields[2]
			}
			err = s.api.PlayContext(fields[1], offset)
		} else {
			err = s.api.PlayContext(fields[0], "")
		}

	default:
		err = fmt.Errorf("nothing selected")
	}

	if err != nil {
		s.dash.AddLog("Error playing song")
		return "[ERROR] Error playing song"
	}
	s.dash.AddLog("Playing selection")
	return "[PLAY] Played selection"
}

func (s *Server) modifyStates(command string) string {
	switch command {
	case "pause", "resume":
		cp, _ := s.api.CurrentlyPlaying()
		playing := cp != nil && cp.IsPlaying

		var err error
		if playing {
			err = s.api.Pause()
			s.dash.AddLog("Playback paused")
		} else {
			err = s.api.Resume()
			s.dash.AddLog("Playback resumed")
		}
		if err != nil {
			return "[ERROR] Error pausing/resuming playback"
		}
		next := !playing
		return s.playbackStates(&statesOverride{playing: &next})

	case "shuffle":
		state, err := s.api.PlaybackState()
		if err != nil || state == nil {
			return "[ERROR] Error changing shuffle state"
		}
		next := !state.ShuffleState
		if err := s.api.SetShuffle(next); err != nil {
			s.dash.AddLog("Error changing shuffle state: " + err.Error())
			return "[ERROR] Error changing shuffle state"
		}
		if next {
			s.dash.AddLog("Shuffle enabled")
		} else {
			s.dash.AddLog("Shuffle disabled")
		}
		return s.playbackStates(&statesOverride{shuffle: &next})

	case "repeat":
		state, err := s.api.PlaybackState()
		if err != nil || state == nil {
			return "[ERROR] Error changing repeat state"
		}
		next := nextRepeatState(state.RepeatState)
		if err := s.api.SetRepeat(next); err != nil {
			s.dash.AddLog("Error changing repeat state")
			return "[ERROR] Error changing repeat state"
		}
		s.dash.AddLog("Repeat mode: " + capitalize(next))
		return s.playbackStates(&statesOverride{repeat: &next})
	}
	return "[ERROR] Unknown command"
}

// nextRepeatState cycles track → context → off → track.
func nextRepeatState(current string) string {
	switch current {
	case "track":
		return "context"
	case "context":
		return "off"
	default:
		return "track"
	}
}

func (s *Server) listStuff(command, data string) string {
	switch command {
	case "list_playlists":
		s.setDisplay("playlists")
		playlists, err := s.api.Playlists()
		if err != nil {
			return "[ERROR] Error listing playlists"
		}
		lines := make([]string, 0, len(playlists))
		for _, pl := range playlists {
			lines = append(lines, fmt.Sprintf("PLAYLIST:%s|%s|%d", pl.Name, pl.URI, pl.Tracks.Total))
		}
		return strings.Join(lines, "\n")

	case "search":
		// Data format: "<type> <query>", type being track, album, artist
		// or a comma-separated combination.
		fields := strings.Fields(data)
		if len(fields) < 2 {
			return "[ERROR] Error searching"
		}
		s.setDisplay("search")
		types, query := fields[0], strings.Join(fields[1:], " ")
		s.dash.AddLog(fmt.Sprintf("Searching for %s: %s", types, query))

		results, err := s.api.Search(query, types)
		if err != nil {
			s.dash.AddLog("Error searching")
			return "[ERROR] Error searching"
		}
		return formatSearchResults(results)

	case "list_queue":
		queue, err := s.api.Queue()
		if err != nil || len(queue.Queue) == 0 {
			s.dash.AddLog("No queue found")
			return "[ERROR] No queue found"
		}
		s.setDisplay("queue")
		s.dash.AddLog("Listing queue")
		lines := make([]string, 0, len(queue.Queue))
		for _, track := range queue.Queue {
			lines = append(lines, fmt.Sprintf("QUEUE:%s|%s|%s", track.Name, joinArtists(track.Artists), track.URI))
		}
		return strings.Join(lines, "\n")
	}
	return "[ERROR] Unknown command"
}

func (s *Server) displayInfo(command, data string) string {
	switch command {
	case "display_album":
		s.setDisplay("album")
		album, err := s.api.Album(uriID(data))
		if err != nil {
			s.dash.AddLog("Error loading album tracks")
			return "[ERROR] Error loading album tracks"
		}
		tracks, err := s.api.AlbumTracks(album.ID)
		if err != nil || len(tracks) == 0 {
			s.dash.AddLog("Error loading album tracks")
			return "[ERROR] Error loading album tracks"
		}
		s.dash.AddLog("Displaying album: " + album.Name)

		lines := []string{fmt.Sprintf("ALBUM:%s|%s|%s", album.Name, joinArtists(album.Artists), album.URI)}
		for i, track := range tracks {
			lines = append(lines, fmt.Sprintf("ALBUM_TRACK:%d|%s|%s", i+1, track.Name, track.URI))
		}
		return strings.Join(lines, "\n")

	case "display_playlist":
		// Data format: "<playlist uri> <offset>"
		s.setDisplay("playlist")
		fields := strings.Fields(data)
		if len(fields) == 0 {
			return "[ERROR] Error loading playlist tracks"
		}
		offset := 0
		if len(fields) > 1 {
			offset, _ = strconv.Atoi(fields[1])
		}

		// The Liked Songs pseudo-playlist has a "collection" URI.
		if strings.Contains(fields[0], "collection") {
			tracks, total, err := s.api.SavedTracks(offset)
			if err != nil || len(tracks) == 0 {
				s.dash.AddLog("Error loading playlist tracks")
				return "[ERROR] Error loading playlist tracks"
			}
			s.dash.AddLog("Displaying Liked Songs")
			lines := []string{fmt.Sprintf("PLAYLIST:Liked Songs|%s|%d", fields[0], total)}
			for i, track := range tracks {
				lines = append(lines, fmt.Sprintf("PLAYLIST_TRACK:%d|%s|%s|%s",
					offset+i+1, track.Name, joinArtists(track.Artists), track.URI))
			}
			return strings.Join(lines, "\n")
		}

		playlist, err := s.api.PlaylistTracks(uriID(fields[0]), offset)
		if err != nil || len(playlist.Tracks.Items) == 0 {
			s.dash.AddLog("Error loading playlist tracks")
			return "[ERROR] Error loading playlist tracks"
		}
		s.dash.AddLog("Displaying playlist: " + playlist.Name)
		lines := []string{fmt.Sprintf("PLAYLIST:%s|%s|%d", playlist.Name, playlist.URI, playlist.Tracks.Total)}
		for i, item := range playlist.Tracks.Items {
			lines = append(lines, fmt.Sprintf("PLAYLIST_TRACK:%d|%s|%s|%s",
				offset+i+1, item.Track.Name, joinArtists(item.Track.Artists), item.Track.URI))
		}
		return strings.Join(lines, "\n")

	case "display_artist":
		s.setDisplay("artist")
		artist, err := s.api.Artist(uriID(data))
		if err != nil {
			s.dash.AddLog("Error loading artist")
			return "[ERROR] Error loading artist"
		}
		topTracks, err := s.api.ArtistTopTracks(artist.ID)
		if err != nil || len(topTracks) == 0 {
			s.dash.AddLog("Error loading artist")
			return "[ERROR] Error loading artist"
		}
		albums, _ := s.api.ArtistAlbums(artist.ID)
		s.dash.AddLog("Displaying artist: " + artist.Name)

		lines := []string{fmt.Sprintf("ARTIST:%s|%s", artist.Name, artist.URI)}
		for _, track := range topTracks {
			lines = append(lines, fmt.Sprintf("TOP_TRACK:%s|%s", track.Name, track.URI))
		}
		for _, album := range albums {
			lines = append(lines, fmt.Sprintf("ARTIST_ALBUM:%s|%s", album.Name, album.URI))
		}
		return strings.Join(lines, "\n")
	}
	return "[ERROR] Unknown command"
}

func (s *Server) mediaRequest(command string) string {
	cp, err := s.api.CurrentlyPlaying()
	if err != nil || cp == nil || cp.Item == nil {
		return "[ERROR] No current song active"
	}
	track := cp.Item

	switch command {
	case "get_canvas_video":
		if canvas := s.canvas.Lookup(track.ID); canvas != nil && canvas.CanvasURL != "" {
			return "CANVAS_URL:" + canvas.CanvasURL
		}
		return "NO_CANVAS_AVAILABLE"

	case "get_artist_image":
		if imgURL := s.artistImage(track.Artists); imgURL != "" {
			return "ARTIST_IMG_URL:" + imgURL
		}
		return "NO_ARTIST_IMAGE_AVAILABLE"

	case "get_track_color":
		if len(track.Album.Images) == 0 {
			return "NO_ALBUM_ART_AVAILABLE"
		}
		if hex, ok := s.colors.DominantColorHex(track.Album.Images[0].URL); ok {
			return "TRACK_COLOR:" + hex
		}
		return "NO_COLOR_AVAILABLE"
	}
	return "[ERROR] Unknown command"
}

// artistImage resolves the lead artist's image URL, caching per artist ID
// including misses.
func (s *Server) artistImage(artists []spotify.Artist) string {
	if len(artists) == 0 {
		return ""
	}
	id := artists[0].ID

	s.mu.Lock()
	if url, ok := s.artistImages[id]; ok {
		s.mu.Unlock()
		return url
	}
	s.mu.Unlock()

	url := ""
	if artist, err := s.api.Artist(id); err == nil && len(artist.Images) > 0 {
		url = artist.Images[0].URL
	}

	s.mu.Lock()
	s.artistImages[id] = url
	s.mu.Unlock()
	return url
}

func (s *Server) setDisplay(display string) {
	s.mu.Lock()
	s.display = display
	s.mu.Unlock()
}
