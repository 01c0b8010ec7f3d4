package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"resonify/internal/app"
	"resonify/internal/artcolor"
	"resonify/internal/canvas"
	"resonify/internal/config"
	"resonify/internal/dashboard"
	"resonify/internal/server"
	"resonify/internal/spotify"
)

func main() {
	debug := flag.Bool("debug", false, "write pipeline diagnostics to a log file")
	flag.Parse()

	cfg, err := config.Load()
	if errors.Is(err, config.ErrTemplateWritten) {
		path, _ := config.ConfigPath()
		fmt.Println("A config template was written to:")
		fmt.Println("  " + path)
		fmt.Println("Fill in your Spotify API credentials and restart.")
		return
	}
	if errors.Is(err, config.ErrPlaceholderValues) {
		path, _ := config.ConfigPath()
		fmt.Println("The config still contains template values:")
		fmt.Println("  " + path)
		fmt.Println("Fill in your Spotify API credentials and restart.")
		return
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		log.Fatalf("Failed to resolve config dir: %v", err)
	}

	// The terminal belongs to the dashboard once it starts, so diagnostics
	// go to files inside the config dir.
	if *debug || cfg.UI.Debug {
		artcolor.EnableDebugLog(filepath.Join(configDir, "color_debug.log"))
		if f, err := os.OpenFile(filepath.Join(configDir, "resonify.log"),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
			log.SetOutput(f)
			defer f.Close()
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	api := spotify.NewClient(
		cfg.Spotify.ClientID,
		cfg.Spotify.ClientSecret,
		cfg.Spotify.RedirectURI,
		filepath.Join(configDir, "token.json"),
	)
	if err := api.Authorize(ctx); err != nil {
		log.Fatalf("Spotify authorization failed: %v", err)
	}

	dash := dashboard.New(cfg.UI.RefreshMS)
	colors := artcolor.NewExtractor(dash)
	cv := canvas.NewClient()
	srv := server.New(api, cv, colors, dash, cfg.Server.Port)
	poller := app.New(api, colors, dash, cfg.UI.PollMS)

	go func() {
		if err := srv.Run(ctx); err != nil {
			log.Printf("Websocket server stopped: %v", err)
			dash.Stop()
		}
	}()
	go poller.Run(ctx)
	go func() {
		<-ctx.Done()
		dash.Stop()
	}()

	dash.AddLog(fmt.Sprintf("Listening on ws://localhost:%d", cfg.Server.Port))
	if err := dash.Run(); err != nil {
		log.Fatalf("Dashboard failed: %v", err)
	}
	cancel()
}
