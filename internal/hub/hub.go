package hub

import (
	"log"
	"sync"
)

// Event names pushed to live viewers.
const (
	EventConnected  = "connected"
	EventNewRequest = "new_request"
	EventPing       = "ping"
	EventPong       = "pong"
)

// Event is one outbound notification, serialized as JSON on the wire.
type Event struct {
	Event        string `json:"event"`
	Username     string `json:"username,omitempty"`
	RequestID    string `json:"request_id,omitempty"`
	Method       string `json:"method,omitempty"`
	RequestCount int64  `json:"request_count,omitempty"`
}

// Sender is one live viewer connection. The hub only ever writes to it; a
// failing sender is dropped silently by its own read loop.
type Sender interface {
	WriteJSON(v any) error
}

// Hub owns the per-username registry of live connections. It is the only
// writer of the registry; handlers register and unregister through it.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]map[Sender]struct{}
	logger *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		conns:  make(map[string]map[Sender]struct{}),
		logger: logger,
	}
}

func (h *Hub) Register(username string, conn Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[username] == nil {
		h.conns[username] = make(map[Sender]struct{})
	}
	h.conns[username][conn] = struct{}{}
}

// Unregister removes a connection and drops the username entry entirely once
// its last connection is gone, so the registry stays bounded.
func (h *Hub) Unregister(username string, conn Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[username]
	if !ok {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(h.conns, username)
	}
}

// Broadcast delivers an event to every connection registered for the
// username. The set is snapshotted under the read lock and iterated outside
// it, so a concurrent disconnect cannot invalidate the iteration. Per-
// connection write failures are swallowed.
func (h *Hub) Broadcast(username string, event Event) {
	h.mu.RLock()
	set := h.conns[username]
	snapshot := make([]Sender, 0, len(set))
	for conn := range set {
		snapshot = append(snapshot, conn)
	}
	h.mu.RUnlock()

	for _, conn := range snapshot {
		if err := conn.WriteJSON(event); err != nil {
			h.logger.Printf("Failed to notify a connection for %q: %v", username, err)
		}
	}
}

// ConnectionCount reports the number of live connections for a username.
func (h *Hub) ConnectionCount(username string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[username])
}
