// Package app drives the playback poller that keeps the dashboard current
// and triggers album-art color extraction on track changes.
package app

import (
	"context"
	"time"

	"resonify/internal/artcolor"
	"resonify/internal/dashboard"
	"resonify/internal/spotify"
)

type App struct {
	api    *spotify.Client
	colors *artcolor.Extractor
	dash   *dashboard.Dashboard
	poll   time.Duration

	currentTrackID string
}

func New(api *spotify.Client, colors *artcolor.Extractor, dash *dashboard.Dashboard, pollMS int) *App {
	if pollMS <= 0 {
		pollMS = 1000
	}
	return &App{
		api:    api,
		colors: colors,
		dash:   dash,
		poll:   time.Duration(pollMS) * time.Millisecond,
	}
}

// Run polls playback state until ctx is cancelled. Polling runs on its own
// goroutine cadence; the dashboard redraws independently, so a slow API
// round trip never stalls the animation.
func (a *App) Run(ctx context.Context) {
	ticker := time.NewTicker(a.poll)
	defer ticker.Stop()

	a.update()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.update()
		}
	}
}

func (a *App) update() {
	state, err := a.api.PlaybackState()
	if err != nil || state == nil || state.Item == nil {
		a.dash.SetNowPlaying(dashboard.NowPlaying{})
		return
	}

	track := state.Item
	a.dash.SetNowPlaying(dashboard.NowPlaying{
		Track:      track.Name,
		Artists:    artistNames(track.Artists),
		ProgressMS: state.ProgressMS,
		DurationMS: track.DurationMS,
		Playing:    state.IsPlaying,
		Device:     state.Device.Name,
	})

	if track.ID != a.currentTrackID {
		a.currentTrackID = track.ID
		a.dash.AddLog("Now playing: " + track.Name + " by " + artistNames(track.Artists))
		a.colors.ProcessCurrentTrack(&spotify.CurrentlyPlaying{
			Item:       track,
			ProgressMS: state.ProgressMS,
			IsPlaying:  state.IsPlaying,
			Context:    state.Context,
		})
	}
}

func artistNames(artists []spotify.Artist) string {
	names := ""
	for i, artist := range artists {
		if i > 0 {
			names += ", "
		}
		names += artist.Name
	}
	return names
}
