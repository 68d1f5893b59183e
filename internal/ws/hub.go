package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Event is the frame pushed to clients of one session.
type Event struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
}

type message struct {
	session string
	data    []byte
}

// Hub fans events out to the websocket clients of each session. All client
// bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *logrus.Logger
	now        func() time.Time
}

func NewHub(logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan message, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     logger,
		now:        time.Now,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.WithFields(logrus.Fields{"component": "ws", "session": client.session, "total_clients": total}).Debug("ws connected")

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.WithFields(logrus.Fields{"component": "ws", "session": client.session, "total_clients": total}).Debug("ws disconnected")

		case msg := <-h.broadcast:
			h.mutex.RLock()
			targets := make([]*Client, 0)
			for c := range h.clients {
				if c.session == msg.session {
					targets = append(targets, c)
				}
			}
			h.mutex.RUnlock()

			for _, client := range targets {
				select {
				case client.send <- msg.data:
				default:
					h.drop(client)
				}
			}
		}
	}
}

// Register hands the client to Run. Once Run has returned the client is
// closed straight away.
func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	select {
	case <-h.done:
		close(client.send)
	case h.register <- client:
	}
}

// Unregister is a no-op once Run has returned, since closeAll already
// closed every registered client.
func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case <-h.done:
	case h.unregister <- client:
	}
}

// Notify sends an event to every client of the session. A full buffer
// drops the event.
func (h *Hub) Notify(sessionID, event string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(Event{Type: event, Payload: payload, Timestamp: h.now().UTC().Format(time.RFC3339)})
	if err != nil {
		h.logger.WithFields(logrus.Fields{"component": "ws", "event": event, "err": err}).Warn("ws encode failed")
		return
	}
	select {
	case h.broadcast <- message{session: sessionID, data: b}:
	default:
		h.logger.WithFields(logrus.Fields{"component": "ws", "event": event, "reason": "buffer_full"}).Warn("ws event dropped")
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// drop removes a slow client from inside Run.
func (h *Hub) drop(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	for {
		select {
		case c := <-h.register:
			if c != nil {
				close(c.send)
			}
		default:
			return
		}
	}
}
