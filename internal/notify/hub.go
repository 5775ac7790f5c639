package notify

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	ws "github.com/stemsi/coursequiz/internal/websocket"
)

const subscriberBuffer = 32

// Hub fans notifications out to connected WebSocket subscribers.
// A subscriber that falls behind by more than subscriberBuffer messages
// loses the overflow rather than stalling the sender.
type Hub struct {
	mu      sync.RWMutex
	clients map[*subscriber]struct{}
	closed  bool
	log     zerolog.Logger
}

type subscriber struct {
	conn *websocket.Conn
	send chan interface{}
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.send) })
}

// NewHub creates an empty Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*subscriber]struct{}),
		log:     log.With().Str("component", "notify_hub").Logger(),
	}
}

// Notify broadcasts n to every subscriber.
func (h *Hub) Notify(_ context.Context, n Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event := ws.Notification(n)
	for s := range h.clients {
		select {
		case s.send <- event:
		default:
			h.log.Warn().Str("notification_id", n.ID).Msg("Subscriber lagging, notification dropped")
		}
	}
}

// Clients returns the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve attaches an upgraded connection and blocks until it disconnects.
func (h *Hub) Serve(conn *websocket.Conn) {
	s := &subscriber{conn: conn, send: make(chan interface{}, subscriberBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = ws.WriteError(conn, "notification hub is shutting down")
		conn.Close()
		return
	}
	h.clients[s] = struct{}{}
	h.mu.Unlock()

	h.log.Debug().Int("clients", h.Clients()).Msg("Subscriber connected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range s.send {
			if err := ws.WriteEvent(conn, msg); err != nil {
				h.log.Debug().Err(err).Msg("Write to subscriber failed")
				return
			}
		}
	}()

	for {
		action, err := ws.ReadAction(conn)
		if err != nil {
			break
		}
		if action == ws.ActionPing {
			select {
			case s.send <- ws.Pong():
			default:
			}
		}
	}

	h.remove(s)
	<-done
	conn.Close()
	h.log.Debug().Int("clients", h.Clients()).Msg("Subscriber disconnected")
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	delete(h.clients, s)
	h.mu.Unlock()
	s.close()
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*subscriber, 0, len(h.clients))
	for s := range h.clients {
		clients = append(clients, s)
	}
	h.mu.Unlock()

	for _, s := range clients {
		s.conn.Close()
	}
}
