// Package server exposes the playback bridge to the Resonite client over a
// local websocket. The protocol is plain text: "command" or "command data",
// answered with KEY:value payload lines or an "[ERROR] ..." line.
package server

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"resonify/internal/artcolor"
	"resonify/internal/canvas"
	"resonify/internal/dashboard"
	"resonify/internal/spotify"
)

type Server struct {
	api    *spotify.Client
	canvas *canvas.Client
	colors *artcolor.Extractor
	dash   *dashboard.Dashboard
	port   int

	mu             sync.Mutex
	display        string // what the remote client is currently viewing
	currentTrackID string
	artistImages   map[string]string
}

func New(api *spotify.Client, cv *canvas.Client, colors *artcolor.Extractor, dash *dashboard.Dashboard, port int) *Server {
	return &Server{
		api:          api,
		canvas:       cv,
		colors:       colors,
		dash:         dash,
		port:         port,
		artistImages: make(map[string]string),
	}
}

// Run serves the websocket until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleSocket)

	srv := &http.Server{
		Addr:    fmt.Sprintf("localhost:%d", s.port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	err := srv.ListenAndServe()
	if err == http.ErrServerClosed || ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("websocket server: %w", err)
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	// The Resonite client connects without a browser origin.
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}
	defer conn.CloseNow()

	id := fmt.Sprintf("%08x", rand.Uint32())
	s.dash.AddLog(fmt.Sprintf("Client %s connected", id))
	s.dash.SetClientStatus(true, id)
	defer s.dash.SetClientStatus(false, "")

	ctx := r.Context()

	// Greet with the playback states so the client can set up its controls.
	if err := conn.Write(ctx, websocket.MessageText, []byte(s.playbackStates(nil))); err != nil {
		return
	}

	for {
		_, msg, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				s.dash.AddLog(fmt.Sprintf("Client %s disconnected: %v", id, err))
			} else {
				s.dash.AddLog(fmt.Sprintf("Client %s disconnected", id))
			}
			return
		}

		command, data := splitCommand(string(msg))
		s.dash.AddLog(fmt.Sprintf("Client %s command: %s %s", id, command, truncateData(data)))

		reply := s.dispatch(command, data)
		if err := conn.Write(ctx, websocket.MessageText, []byte(reply)); err != nil {
			return
		}
	}
}
