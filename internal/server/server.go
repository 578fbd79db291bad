package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bobmcallan/glossa/internal/app"
	"github.com/bobmcallan/glossa/internal/common"
)

// Server wraps the HTTP server and application reference.
type Server struct {
	app    *app.App
	server *http.Server
	logger *common.Logger

	// Live search connections are hijacked, so http.Server does not see
	// them. They are tracked here and closed on Shutdown.
	liveMu      sync.Mutex
	liveConns   map[*websocket.Conn]struct{}
	liveClosing bool
	liveWG      sync.WaitGroup
}

// NewServer creates a new HTTP REST API server.
func NewServer(a *app.App) *Server {
	s := &Server{
		app:       a,
		logger:    a.Logger,
		liveConns: make(map[*websocket.Conn]struct{}),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := applyMiddleware(mux, a.Logger, a.Config, a.Metrics)

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port),
		Handler: handler,
		// No WriteTimeout: live search connections outlive any single
		// response. The live writer sets its own per-message deadline.
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests, waits for in-flight ones, then closes
// every live search connection and waits for their handlers to return.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)

	n := s.closeLive()
	if n > 0 {
		s.logger.Info().Int("connections", n).Msg("Closing live search connections")
	}

	done := make(chan struct{})
	go func() {
		s.liveWG.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

// trackLive registers conn. It returns false once shutdown has begun.
func (s *Server) trackLive(conn *websocket.Conn) bool {
	s.liveMu.Lock()
	defer s.liveMu.Unlock()
	if s.liveClosing {
		return false
	}
	s.liveConns[conn] = struct{}{}
	s.liveWG.Add(1)
	return true
}

func (s *Server) untrackLive(conn *websocket.Conn) {
	s.liveMu.Lock()
	delete(s.liveConns, conn)
	s.liveMu.Unlock()
	s.liveWG.Done()
}

// closeLive sends a going-away close frame to each live connection and
// closes it, which ends the handler's read loop.
func (s *Server) closeLive() int {
	s.liveMu.Lock()
	s.liveClosing = true
	conns := make([]*websocket.Conn, 0, len(s.liveConns))
	for c := range s.liveConns {
		conns = append(conns, c)
	}
	s.liveMu.Unlock()

	deadline := time.Now().Add(liveWriteWait)
	for _, c := range conns {
		c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), deadline)
		c.Close()
	}
	return len(conns)
}
