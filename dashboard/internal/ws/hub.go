package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fieldwatch/fieldwatch/dashboard/internal/api"
)

const (
	// writeTimeout bounds a single write to a client connection.
	writeTimeout = 10 * time.Second

	// pongWait is how long a connection may go without a pong before it
	// is treated as dead. pingPeriod must stay below it.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// outBufSize is the per-session outgoing buffer depth. A session that
	// falls this far behind is disconnected rather than backpressuring
	// the broadcast loop.
	outBufSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origin checks belong at the reverse proxy in front of the dashboard.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is the JSON envelope pushed to every connected UI client.
type Message struct {
	Event string               `json:"event"`
	Data  api.SnapshotResponse `json:"data"`
}

// Hub pushes dashboard snapshots to WebSocket clients: on connect, on a
// fixed broadcast interval, and immediately when Wake is called.
type Hub struct {
	deps     *api.Deps
	interval time.Duration
	wake     chan struct{}

	mu       sync.RWMutex
	sessions map[*session]struct{}
}

// session is one connected UI client. out is never closed; detach signals
// shutdown through done instead, so broadcast sends can never hit a closed
// channel.
type session struct {
	conn *websocket.Conn
	out  chan []byte
	done chan struct{}
}

// New creates a Hub that snapshots deps and broadcasts every interval.
func New(deps *api.Deps, interval time.Duration) *Hub {
	return &Hub{
		deps:     deps,
		interval: interval,
		wake:     make(chan struct{}, 1),
		sessions: make(map[*session]struct{}),
	}
}

// Wake triggers an out-of-band broadcast so state changes reach clients
// without waiting for the next tick. Safe to call from any goroutine;
// concurrent wakes coalesce.
func (h *Hub) Wake() {
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// Run drives the broadcast loop until ctx is cancelled, then closes all
// active connections.
func (h *Hub) Run(ctx context.Context) {
	t := time.NewTicker(h.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-t.C:
			h.broadcast()
		case <-h.wake:
			h.broadcast()
		}
	}
}

// ServeHTTP upgrades the request to a WebSocket session, sends the current
// snapshot right away, and blocks until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	s := &session{
		conn: conn,
		out:  make(chan []byte, outBufSize),
		done: make(chan struct{}),
	}
	h.attach(s)
	defer h.detach(s)

	if data, err := h.snapshotMessage(); err == nil {
		select {
		case s.out <- data:
		default:
		}
	}

	go s.writeLoop()
	s.readLoop()
}

// Count returns the number of connected sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (h *Hub) attach(s *session) {
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()
}

// detach removes s from the hub and signals its writeLoop to stop. The
// membership check under the lock makes done close exactly once even when
// broadcast and ServeHTTP race to detach the same session.
func (h *Hub) detach(s *session) {
	h.mu.Lock()
	if _, ok := h.sessions[s]; ok {
		delete(h.sessions, s)
		close(s.done)
	}
	h.mu.Unlock()
}

// broadcast marshals one snapshot and fans it out. Sessions whose buffers
// are full get dropped instead of stalling the others.
func (h *Hub) broadcast() {
	h.mu.RLock()
	targets := make([]*session, 0, len(h.sessions))
	for s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.RUnlock()
	if len(targets) == 0 {
		return
	}

	data, err := h.snapshotMessage()
	if err != nil {
		return
	}
	for _, s := range targets {
		select {
		case s.out <- data:
		default:
			h.detach(s)
		}
	}
}

func (h *Hub) snapshotMessage() ([]byte, error) {
	return json.Marshal(Message{
		Event: "snapshot",
		Data:  api.BuildSnapshot(h.deps),
	})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.sessions {
		close(s.done)
		delete(h.sessions, s)
	}
}

// writeLoop forwards queued messages to the connection and keeps it alive
// with periodic pings. One goroutine per session.
func (s *session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg := <-s.out:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			s.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
			return
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop consumes control frames (pong, close) and detects disconnects.
// Blocks until the connection closes.
func (s *session) readLoop() {
	defer s.conn.Close()
	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}
