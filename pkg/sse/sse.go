package sse

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/gin-gonic/gin"
)

// Event is a single server-sent event pushed to a connected dashboard
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type client struct {
	userID string
	ch     chan Event
}

// Manager fans events out to the SSE connections of each user
type Manager struct {
	register   chan *client
	unregister chan *client
	broadcast  chan userEvent

	mu      sync.RWMutex
	clients map[string]map[*client]struct{} // userID -> connections
}

type userEvent struct {
	userID string
	event  Event
}

func NewManager() *Manager {
	return &Manager{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan userEvent, 256),
		clients:    make(map[string]map[*client]struct{}),
	}
}

// Run processes register/unregister/broadcast requests. Call in a goroutine.
func (m *Manager) Run() {
	for {
		select {
		case c := <-m.register:
			m.mu.Lock()
			if m.clients[c.userID] == nil {
				m.clients[c.userID] = make(map[*client]struct{})
			}
			m.clients[c.userID][c] = struct{}{}
			m.mu.Unlock()
		case c := <-m.unregister:
			m.mu.Lock()
			if conns, ok := m.clients[c.userID]; ok {
				if _, ok := conns[c]; ok {
					delete(conns, c)
					close(c.ch)
					if len(conns) == 0 {
						delete(m.clients, c.userID)
					}
				}
			}
			m.mu.Unlock()
		case ue := <-m.broadcast:
			m.mu.RLock()
			for c := range m.clients[ue.userID] {
				select {
				case c.ch <- ue.event:
				default:
					// Slow consumer, drop the event rather than block
				}
			}
			m.mu.RUnlock()
		}
	}
}

// SendToUser pushes an event to all live connections of a user.
// Fire-and-forget: if the user is not connected the event is dropped.
func (m *Manager) SendToUser(userID string, eventType string, payload interface{}) {
	select {
	case m.broadcast <- userEvent{userID: userID, event: Event{Type: eventType, Payload: payload}}:
	default:
		log.Printf("[SSE] Broadcast queue full, dropping %s event for user %s", eventType, userID)
	}
}

// ServeHTTP streams events to a single connection until the client goes away
func (m *Manager) ServeHTTP(c *gin.Context, userID string) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	cl := &client{userID: userID, ch: make(chan Event, 16)}
	m.register <- cl
	defer func() { m.unregister <- cl }()

	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case ev, ok := <-cl.ch:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", ev.Type, data)
			c.Writer.Flush()
		}
	}
}
