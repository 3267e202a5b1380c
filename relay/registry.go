package relay

import "sync"

// PresenceEntry maps a logical user to its live connection.
type PresenceEntry struct {
	UserID string `json:"userId"`
	ConnID string `json:"socketId"`
}

// Registry is the process-wide presence table. It is never persisted; a
// restart empties it. All mutation goes through Register/Unregister, guarded
// by the mutex since connection events arrive on independent goroutines.
type Registry struct {
	mu      sync.RWMutex
	entries []PresenceEntry
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register upserts the entry for a user. Reconnecting replaces the previous
// connection, so a fresh tab wins over a stale one.
func (r *Registry) Register(userID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		if r.entries[i].UserID == userID {
			r.entries[i].ConnID = connID
			return
		}
	}
	r.entries = append(r.entries, PresenceEntry{UserID: userID, ConnID: connID})
}

// Unregister removes the entry owning the connection; no-op when none does.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	filtered := r.entries[:0]
	for _, entry := range r.entries {
		if entry.ConnID != connID {
			filtered = append(filtered, entry)
		}
	}
	r.entries = filtered
}

// Lookup returns the connection currently owned by the user.
func (r *Registry) Lookup(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.entries {
		if entry.UserID == userID {
			return entry.ConnID, true
		}
	}
	return "", false
}

// Snapshot copies the current registry state for a getUsers broadcast.
func (r *Registry) Snapshot() []PresenceEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]PresenceEntry, len(r.entries))
	copy(snapshot, r.entries)
	return snapshot
}
