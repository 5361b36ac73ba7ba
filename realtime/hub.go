// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/thirdspaces/gallery/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Subscribers only send control frames
	maxMessageSize = 512

	// Events buffered per subscriber before it is considered slow
	sendBufferSize = 64
)

// Observer is told when subscribers come and go (see metrics.Collector)
type Observer interface {
	ClientConnected()
	ClientDisconnected()
}

type nopObserver struct{}

func (nopObserver) ClientConnected()    {}
func (nopObserver) ClientDisconnected() {}

// Hub fans vote-insert events out to websocket subscribers. Publishing never
// blocks: a subscriber whose buffer is full is disconnected.
type Hub struct {
	upgrader websocket.Upgrader
	observer Observer

	mu      sync.Mutex
	clients map[*subscriber]struct{}
	closed  bool

	wg sync.WaitGroup
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub. obs may be nil.
func NewHub(obs Observer) *Hub {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The gallery is served from a different origin than the API
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		observer: obs,
		clients:  make(map[*subscriber]struct{}),
	}
}

// Publish sends ev to every connected subscriber
func (h *Hub) Publish(ev models.VoteEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("failed to marshal vote event", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.clients {
		select {
		case s.send <- data:
		default:
			slog.Warn("dropping slow realtime subscriber", "remote", s.conn.RemoteAddr().String())
			h.removeLocked(s)
		}
	}
}

// Len returns the number of connected subscribers
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request and streams vote events until the peer leaves
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		http.Error(w, "realtime feed unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		slog.Debug("websocket upgrade failed", "error", err)
		return
	}

	s := &subscriber{conn: conn, send: make(chan []byte, sendBufferSize)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[s] = struct{}{}
	h.wg.Add(2)
	h.mu.Unlock()

	h.observer.ClientConnected()
	slog.Debug("realtime subscriber connected", "remote", conn.RemoteAddr().String())

	go h.writePump(s)
	go h.readPump(s)
}

// Close disconnects every subscriber and waits for their goroutines to exit
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	for s := range h.clients {
		h.removeLocked(s)
	}
	h.mu.Unlock()

	h.wg.Wait()
}

// removeLocked drops s from the hub; only the remover closes s.send
func (h *Hub) removeLocked(s *subscriber) {
	if _, ok := h.clients[s]; !ok {
		return
	}
	delete(h.clients, s)
	close(s.send)
	h.observer.ClientDisconnected()
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	h.removeLocked(s)
	h.mu.Unlock()
}

// readPump discards client frames and notices when the peer goes away
func (h *Hub) readPump(s *subscriber) {
	defer func() {
		h.remove(s)
		s.conn.Close()
		h.wg.Done()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("realtime read error", "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(s *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
		h.wg.Done()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				s.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Debug("realtime write failed", "error", err)
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
