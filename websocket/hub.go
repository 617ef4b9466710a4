package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event is a booking-lifecycle notification pushed to connected admin
// dashboards
type Event struct {
	Type        string    `json:"type"` // booking_created, payment_submitted, payment_decided, booking_expired
	BookingID   uint      `json:"booking_id,omitempty"`
	BookingCode string    `json:"booking_code,omitempty"`
	PaymentID   uint      `json:"payment_id,omitempty"`
	Status      string    `json:"status,omitempty"`
	Message     string    `json:"message,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Hub manages admin WebSocket connections and fans booking events out to them
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("🔌 Admin client connected: user %d", client.UserID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("🔌 Admin client disconnected: user %d", client.UserID)

		case event := <-h.broadcast:
			h.broadcastEvent(event)

		case <-h.done:
			return
		}
	}
}

// Stop shuts down the hub loop
func (h *Hub) Stop() {
	close(h.done)
}

// Notify queues an event for broadcast; drops it when the hub is saturated
// rather than blocking a booking workflow.
func (h *Hub) Notify(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- event:
	default:
		log.Printf("⚠️ Notification channel full, dropping %s event", event.Type)
	}
}

// broadcastEvent sends an event to all connected clients
func (h *Hub) broadcastEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ Failed to marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// Slow client, skip this event for it
		}
	}
}
