package server

import (
	"fmt"
	"strings"

	"resonify/internal/spotify"
)

// splitCommand separates "command extra data" into the command word and the
// rest.
func splitCommand(message string) (command, data string) {
	message = strings.TrimSpace(message)
	if idx := strings.IndexByte(message, ' '); idx >= 0 {
		return message[:idx], message[idx+1:]
	}
	return message, ""
}

func truncateData(data string) string {
	if len(data) > 20 {
		return data[:20] + "..."
	}
	return data
}

func joinArtists(artists []spotify.Artist) string {
	names := make([]string, 0, len(artists))
	for _, artist := range artists {
		names = append(names, artist.Name)
	}
	return strings.Join(names, ", ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// uriID extracts the bare ID from a Spotify URI such as
// "spotify:album:4aawyAB9vmqN3uQ7FjRGTy". Bare IDs pass through.
func uriID(uri string) string {
	uri = strings.TrimSpace(uri)
	if idx := strings.LastIndexByte(uri, ':'); idx >= 0 {
		return uri[idx+1:]
	}
	return uri
}

func formatSearchResults(results *spotify.SearchResults) string {
	var lines []string
	if results.Tracks != nil {
		for _, track := range results.Tracks.Items {
			lines = append(lines, fmt.Sprintf("TRACK_RESULT:%s|%s|%s",
				track.Name, joinArtists(track.Artists), track.URI))
		}
	}
	if results.Albums != nil {
		for _, album := range results.Albums.Items {
			lines = append(lines, fmt.Sprintf("ALBUM_RESULT:%s|%s|%s",
				album.Name, joinArtists(album.Artists), album.URI))
		}
	}
	if results.Artists != nil {
		for _, artist := range results.Artists.Items {
			lines = append(lines, fmt.Sprintf("ARTIST_RESULT:%s|%s", artist.Name, artist.URI))
		}
	}
	if len(lines) == 0 {
		return "[ERROR] Error searching"
	}
	return strings.Join(lines, "\n")
}
