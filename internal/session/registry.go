package session

import "sync"

type sessionEntry struct {
	client *Client
	roomID string
}

// Registry tracks connected sessions and the room each one currently
// belongs to. Its lock is always the innermost one taken.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*sessionEntry)}
}

// Register adds a session with no room. Registering an id twice replaces
// the previous client.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[c.ID] = &sessionEntry{client: c}
}

// Remove forgets the session and returns the room it was in.
func (r *Registry) Remove(id string) (roomID string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[id]
	if !ok {
		return "", false
	}
	delete(r.sessions, id)
	return entry.roomID, true
}

func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[id]
	return ok
}

func (r *Registry) Client(id string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return entry.client, true
}

// CurrentRoom returns the session's room, if any.
func (r *Registry) CurrentRoom(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sessions[id]
	if !ok || entry.roomID == "" {
		return "", false
	}
	return entry.roomID, true
}

func (r *Registry) SetRoom(id, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.sessions[id]; ok {
		entry.roomID = roomID
	}
}

// ClearRoom unsets the session's room only if it still points at roomID.
func (r *Registry) ClearRoom(id, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.sessions[id]; ok && entry.roomID == roomID {
		entry.roomID = ""
	}
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) Clients() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, 0, len(r.sessions))
	for _, entry := range r.sessions {
		out = append(out, entry.client)
	}
	return out
}
