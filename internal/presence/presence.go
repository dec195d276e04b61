package presence

import (
	"encoding/json"
	"sync"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client represents a single client connection (one open event stream).
// It's essentially a channel that the SSE handler will listen to.
type Client chan []byte

// Registry tracks which users currently have an open connection. It is a
// transport-level concern: core handlers only push events into it after a
// transaction has committed.
type Registry struct {
	byUser map[uint]map[Client]bool
	byConn map[Client]uint
	mu     sync.RWMutex
}

// Default is the process-wide registry used by the HTTP layer.
var Default = NewRegistry()

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[uint]map[Client]bool),
		byConn: make(map[Client]uint),
	}
}

// SetOnline registers a connection for a user. A user may hold several
// connections at once (multiple devices).
func (r *Registry) SetOnline(userID uint, client Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUser[userID]; !ok {
		r.byUser[userID] = make(map[Client]bool)
	}
	r.byUser[userID][client] = true
	r.byConn[client] = userID
}

// ClearByConnection removes a connection and closes its channel. The user
// stays online while other connections remain.
func (r *Registry) ClearByConnection(client Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[client]
	if !ok {
		return
	}
	delete(r.byConn, client)

	if clients, ok := r.byUser[userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client) // Close the channel to signal the SSE handler to stop.
		}
		if len(clients) == 0 {
			delete(r.byUser, userID)
		}
	}
}

// IsOnline reports whether the user has at least one open connection.
func (r *Registry) IsOnline(userID uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byUser[userID]) > 0
}

// Push sends an event to all of a user's connections. Offline users are a
// no-op; the notification row is already persisted.
func (r *Registry) Push(userID uint, event Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients, ok := r.byUser[userID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		return
	}

	for client := range clients {
		// Use a non-blocking send to prevent a slow client from blocking the registry.
		select {
		case client <- messageBytes:
		default:
			// Client channel is full, maybe they are disconnected or slow.
			// ClearByConnection will handle cleaning this up eventually.
		}
	}
}
