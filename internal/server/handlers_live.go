package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bobmcallan/glossa/internal/common"
	"github.com/bobmcallan/glossa/internal/glossary"
	"github.com/bobmcallan/glossa/internal/metrics"
)

const (
	liveWriteWait    = 10 * time.Second
	livePongWait     = 60 * time.Second
	livePingInterval = 30 * time.Second
	liveMaxMessage   = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// liveMessage is a client input on the live channel. Query and transcript
// carry Text; category and letter carry Value.
type liveMessage struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Value string `json:"value,omitempty"`
}

// liveEvent is pushed to the client.
type liveEvent struct {
	Type  string              `json:"type"` // "state" or "error"
	State *glossary.ViewState `json:"state,omitempty"`
	Error string              `json:"error,omitempty"`
}

// liveSession pairs one connection with one view. Only the latest state
// is kept for sending; intermediate states a slow client missed are
// dropped.
type liveSession struct {
	conn    *websocket.Conn
	logger  *common.Logger
	metrics *metrics.Recorder

	mu     sync.Mutex
	latest *glossary.ViewState
	errs   []string

	wake chan struct{}
	done chan struct{}
}

func newLiveSession(conn *websocket.Conn, logger *common.Logger, rec *metrics.Recorder) *liveSession {
	return &liveSession{
		conn:    conn,
		logger:  logger,
		metrics: rec,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// push is the view subscriber.
func (ls *liveSession) push(state glossary.ViewState) {
	if state.Status == glossary.StatusReady && !state.Searching {
		ls.metrics.ObserveSearch("live", state.Searched, state.Total)
	}
	ls.mu.Lock()
	ls.latest = &state
	ls.mu.Unlock()
	ls.signal()
}

func (ls *liveSession) pushError(msg string) {
	ls.mu.Lock()
	ls.errs = append(ls.errs, msg)
	ls.mu.Unlock()
	ls.signal()
}

func (ls *liveSession) signal() {
	select {
	case ls.wake <- struct{}{}:
	default:
	}
}

// flush writes queued errors, then the latest state.
func (ls *liveSession) flush() error {
	ls.mu.Lock()
	errs := ls.errs
	state := ls.latest
	ls.errs = nil
	ls.latest = nil
	ls.mu.Unlock()

	for _, e := range errs {
		if err := ls.write(liveEvent{Type: "error", Error: e}); err != nil {
			return err
		}
	}
	if state != nil {
		return ls.write(liveEvent{Type: "state", State: state})
	}
	return nil
}

func (ls *liveSession) write(ev liveEvent) error {
	ls.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	return ls.conn.WriteJSON(ev)
}

// writePump owns all writes to the connection.
func (ls *liveSession) writePump(finished chan<- struct{}) {
	defer close(finished)
	ticker := time.NewTicker(livePingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ls.wake:
			if err := ls.flush(); err != nil {
				ls.conn.Close()
				return
			}

		case <-ticker.C:
			ls.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := ls.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				ls.conn.Close()
				return
			}

		case <-ls.done:
			ls.flush()
			ls.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(liveWriteWait))
			return
		}
	}
}

// readPump applies client inputs to the view until the connection ends.
func (ls *liveSession) readPump(view *glossary.View) {
	ls.conn.SetReadLimit(liveMaxMessage)
	ls.conn.SetReadDeadline(time.Now().Add(livePongWait))
	ls.conn.SetPongHandler(func(string) error {
		ls.conn.SetReadDeadline(time.Now().Add(livePongWait))
		return nil
	})

	for {
		_, data, err := ls.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ls.logger.Debug().Err(err).Msg("Live search connection closed unexpectedly")
			}
			return
		}
		ls.conn.SetReadDeadline(time.Now().Add(livePongWait))

		var msg liveMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			ls.pushError("invalid message: " + err.Error())
			continue
		}
		if err := applyLiveMessage(view, msg); err != nil {
			ls.pushError(err.Error())
		}
	}
}

// applyLiveMessage routes one input to the view. Transcripts from voice
// input are handled exactly like typed text.
func applyLiveMessage(view *glossary.View, msg liveMessage) error {
	switch msg.Type {
	case "query", "transcript":
		return view.SetQuery(common.SanitizeInput(msg.Text))
	case "category":
		return view.SetCategory(msg.Value)
	case "letter":
		return view.SetLetter(msg.Value)
	case "clear":
		return view.Clear()
	default:
		return &unknownMessageError{Type: msg.Type}
	}
}

type unknownMessageError struct {
	Type string
}

func (e *unknownMessageError) Error() string {
	return "unknown message type: " + e.Type
}

// handleLive handles GET /api/glossary/live, upgrading to a WebSocket that
// streams view states while the client types.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	if !s.trackLive(conn) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(liveWriteWait))
		return
	}
	defer s.untrackLive(conn)

	s.app.Metrics.LiveSessionOpened()
	defer s.app.Metrics.LiveSessionClosed()

	sess := newLiveSession(conn, s.logger, s.app.Metrics)
	view := s.app.Glossary.NewView()
	defer view.Close()
	unsubscribe := view.Subscribe(sess.push)
	defer unsubscribe()

	finished := make(chan struct{})
	go sess.writePump(finished)
	defer func() {
		close(sess.done)
		<-finished
	}()

	if err := view.Mount(r.Context()); err != nil {
		// The error state has been pushed; the client may still send
		// input, which fails with ErrNotReady until it reconnects.
		s.logger.Warn().Err(err).Msg("Live search view failed to load")
	}

	sess.readPump(view)
}
