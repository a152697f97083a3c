package realtime

import "sync"

// Handle is the minimal surface the registry needs from a live connection.
// *Connection satisfies it; tests substitute fakes.
type Handle interface {
	Send(payload []byte) error
	Close(code int, reason string)
}

// Registry is the process-wide map from user identity to live connection.
// One active connection per user: a reconnect replaces the prior entry without
// signalling the displaced connection, which dies on its own transport timeout.
// Empty at process start; nothing is persisted.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]Handle
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Handle)}
}

// Register binds userID to the handle, silently evicting any prior entry.
func (r *Registry) Register(userID string, h Handle) {
	r.mu.Lock()
	r.clients[userID] = h
	r.mu.Unlock()
}

// Lookup returns the current handle for userID, if any.
func (r *Registry) Lookup(userID string) (Handle, bool) {
	r.mu.RLock()
	h, ok := r.clients[userID]
	r.mu.RUnlock()
	return h, ok
}

// Unregister removes the entry whose value is this handle. A stale handle that
// was already replaced by a reconnect leaves the new entry untouched.
func (r *Registry) Unregister(h Handle) {
	r.mu.Lock()
	for userID, current := range r.clients {
		if current == h {
			delete(r.clients, userID)
			break
		}
	}
	r.mu.Unlock()
}

// NotifyUser delivers payload to the user's current connection, reporting
// whether a delivery was attempted successfully. Absent users are not an error.
func (r *Registry) NotifyUser(userID string, payload []byte) bool {
	r.mu.RLock()
	h, ok := r.clients[userID]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	return h.Send(payload) == nil
}

// Close terminates all tracked connections and clears the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	handles := make([]Handle, 0, len(r.clients))
	for _, h := range r.clients {
		handles = append(handles, h)
	}
	r.clients = make(map[string]Handle)
	r.mu.Unlock()

	for _, h := range handles {
		h.Close(1001, "registry shutdown")
	}
}
