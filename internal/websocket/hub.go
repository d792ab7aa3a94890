package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains the set of active clients grouped by tenant and pushes
// proactive agent events to them
type Hub struct {
	// Registered clients map: CompanyID -> set of Clients
	clients map[string]map[*Client]bool

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]map[*Client]bool),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if client.CompanyID != "" {
				if h.clients[client.CompanyID] == nil {
					h.clients[client.CompanyID] = make(map[*Client]bool)
				}
				h.clients[client.CompanyID][client] = true
				log.Printf("🔌 Agent event listener connected: company=%s", client.CompanyID)
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.clients[client.CompanyID]; ok {
				if _, ok := set[client]; ok {
					delete(set, client)
					close(client.send)
					if len(set) == 0 {
						delete(h.clients, client.CompanyID)
					}
					log.Printf("📴 Agent event listener disconnected: company=%s", client.CompanyID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToCompany sends an event to every listener of one tenant.
// Returns the number of clients that accepted the message.
func (h *Hub) BroadcastToCompany(companyID string, message interface{}) int {
	jsonMsg, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for client := range h.clients[companyID] {
		select {
		case client.send <- jsonMsg:
			sent++
		default:
			// Buffer full or client dead
		}
	}
	return sent
}

// ListenerCount reports how many listeners a tenant currently has.
func (h *Hub) ListenerCount(companyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[companyID])
}
