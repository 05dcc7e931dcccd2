package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"codesync/internal/metrics"
	"codesync/internal/models"
)

// Hub owns every room and applies client operations to them. Each
// operation mutates a room and routes the resulting notifications while
// holding that room's lock, so all members observe one order per room.
//
// Lock order: Hub.mu, then Room.mu, then Registry.mu.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	registry *Registry
	router   *Router
	log      *zap.Logger
	now      func() time.Time
}

func NewHub(registry *Registry, router *Router, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		rooms:    make(map[string]*Room),
		registry: registry,
		router:   router,
		log:      log,
		now:      time.Now,
	}
}

// SetClock overrides the hub's time source.
func (h *Hub) SetClock(now func() time.Time) {
	if now != nil {
		h.now = now
	}
}

func (h *Hub) Registry() *Registry { return h.registry }
func (h *Hub) Router() *Router { return h.router }

// GetOrCreate returns the room for id, creating an empty one on first use.
func (h *Hub) GetOrCreate(id string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[id]; ok {
		return r
	}
	r := NewRoom(id, h.now())
	h.rooms[id] = r
	metrics.ActiveRooms.Set(float64(len(h.rooms)))
	return r
}

func (h *Hub) room(id string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[id]
	return r, ok
}

// lockRoom returns the room for id with its lock held. A room evicted
// between lookup and lock counts as missing.
func (h *Hub) lockRoom(id string) (*Room, bool) {
	r, ok := h.room(id)
	if !ok {
		return nil, false
	}
	r.mu.Lock()
	if r.evicted {
		r.mu.Unlock()
		return nil, false
	}
	return r, true
}

func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// Snapshot returns the current state of a room, if it exists.
func (h *Hub) Snapshot(roomID string) (models.RoomState, bool) {
	r, ok := h.room(roomID)
	if !ok {
		return models.RoomState{}, false
	}
	return r.Snapshot(), true
}

// Connect registers a new session and greets it.
func (h *Hub) Connect(c *Client) {
	h.registry.Register(c)
	metrics.ActiveSessions.Set(float64(h.registry.Count()))
	h.router.NotifySession(c.ID, models.EventConnected, models.ConnectedPayload{Status: models.ConnectedStatus})
	h.log.Info("session connected", zap.String("session_id", c.ID))
}

// Disconnect removes the session from its room, tells the remaining members,
// and forgets the session. Unknown sessions are ignored.
func (h *Hub) Disconnect(sessionID string) {
	if roomID, ok := h.registry.CurrentRoom(sessionID); ok {
		if r, ok := h.room(roomID); ok {
			r.mu.Lock()
			if _, removed := r.removeMemberLocked(sessionID, h.now()); removed {
				h.router.Fanout(r.memberIDsLocked(), models.EventUserDisconnected,
					models.UserDisconnectedPayload{UserID: sessionID}, sessionID)
			}
			r.mu.Unlock()
		}
	}
	if _, ok := h.registry.Remove(sessionID); !ok {
		return
	}
	metrics.ActiveSessions.Set(float64(h.registry.Count()))
	h.log.Info("session disconnected", zap.String("session_id", sessionID))
}

// JoinRoom adds the session to roomID, sends it the room state and tells
// the other members. A session already in another room leaves that room
// first; re-joining the same room replaces the membership.
func (h *Hub) JoinRoom(sessionID, roomID, username string) (models.RoomState, bool) {
	if !h.registry.Has(sessionID) {
		return models.RoomState{}, false
	}
	if prev, ok := h.registry.CurrentRoom(sessionID); ok && prev != roomID {
		h.LeaveRoom(sessionID, prev)
	}

	for {
		r := h.GetOrCreate(roomID)
		r.mu.Lock()
		if r.evicted {
			// lost a race with the sweeper; the next GetOrCreate builds a fresh room
			r.mu.Unlock()
			continue
		}

		now := h.now()
		r.members[sessionID] = &Member{
			SessionID: sessionID,
			Username:  username,
			JoinedAt:  now,
		}
		r.emptySince = time.Time{}
		h.registry.SetRoom(sessionID, roomID)

		state := r.snapshotLocked()
		h.router.NotifySession(sessionID, models.EventRoomState, state)
		h.router.Fanout(r.memberIDsLocked(), models.EventUserJoined,
			models.UserJoinedPayload{UserID: sessionID, Username: username}, sessionID)
		r.mu.Unlock()

		h.log.Debug("session joined room",
			zap.String("session_id", sessionID),
			zap.String("room_id", roomID),
			zap.String("username", username))
		return state, true
	}
}

// LeaveRoom removes the session from roomID and tells the remaining members.
func (h *Hub) LeaveRoom(sessionID, roomID string) bool {
	defer h.registry.ClearRoom(sessionID, roomID)

	r, ok := h.room(roomID)
	if !ok {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.removeMemberLocked(sessionID, h.now())
	if !ok {
		return false
	}
	h.router.Fanout(r.memberIDsLocked(), models.EventUserLeft,
		models.UserLeftPayload{UserID: sessionID, Username: m.Username}, sessionID)
	return true
}

// UpdateFile replaces a file's content and relays it to everyone but the
// author. The author's cursor is updated when the author is a member.
func (h *Hub) UpdateFile(sessionID, roomID, path, content string, cursor models.CursorPosition) bool {
	r, ok := h.lockRoom(roomID)
	if !ok {
		return false
	}
	defer r.mu.Unlock()
	r.files[path] = content
	if m, ok := r.members[sessionID]; ok {
		m.Cursor = cursor
	}
	h.router.Fanout(r.memberIDsLocked(), models.EventCodeUpdate, models.CodeUpdatePayload{
		FilePath:       path,
		Content:        content,
		UserID:         sessionID,
		CursorPosition: cursor,
	}, sessionID)
	return true
}

// MoveCursor records a member's cursor and relays it to the other members.
func (h *Hub) MoveCursor(sessionID, roomID string, cursor models.CursorPosition) bool {
	r, ok := h.lockRoom(roomID)
	if !ok {
		return false
	}
	defer r.mu.Unlock()
	m, ok := r.members[sessionID]
	if !ok {
		return false
	}
	m.Cursor = cursor
	h.router.Fanout(r.memberIDsLocked(), models.EventCursorUpdate, models.CursorUpdatePayload{
		UserID:         sessionID,
		Username:       m.Username,
		CursorPosition: cursor,
	}, sessionID)
	return true
}

// CreateFile adds or overwrites a file and announces it to every member.
func (h *Hub) CreateFile(roomID, path, content string) bool {
	r, ok := h.lockRoom(roomID)
	if !ok {
		return false
	}
	defer r.mu.Unlock()
	r.files[path] = content
	h.router.Fanout(r.memberIDsLocked(), models.EventFileCreated,
		models.FileCreatedPayload{FilePath: path, Content: content}, "")
	return true
}

// DeleteFile removes an existing file and announces it to every member.
// The current file pointer is left as is even if it names the deleted file.
func (h *Hub) DeleteFile(roomID, path string) bool {
	r, ok := h.lockRoom(roomID)
	if !ok {
		return false
	}
	defer r.mu.Unlock()
	if _, ok := r.files[path]; !ok {
		return false
	}
	delete(r.files, path)
	h.router.Fanout(r.memberIDsLocked(), models.EventFileDeleted,
		models.FileDeletedPayload{FilePath: path}, "")
	return true
}

// SelectFile moves the room's current file pointer and announces the
// selection with the file's content, or "" when the file does not exist.
func (h *Hub) SelectFile(roomID, path string) (string, bool) {
	r, ok := h.lockRoom(roomID)
	if !ok {
		return "", false
	}
	defer r.mu.Unlock()
	p := path
	r.currentFile = &p
	content := r.files[path]
	h.router.Fanout(r.memberIDsLocked(), models.EventFileSelected,
		models.FileSelectedPayload{FilePath: path, Content: content}, "")
	return content, true
}

// NotifyRoom sends one frame to every member of roomID except exclude.
func (h *Hub) NotifyRoom(roomID string, event models.EventType, payload interface{}, exclude string) int {
	r, ok := h.lockRoom(roomID)
	if !ok {
		return 0
	}
	defer r.mu.Unlock()
	return h.router.Fanout(r.memberIDsLocked(), event, payload, exclude)
}

// NotifySession sends one frame to one session.
func (h *Hub) NotifySession(sessionID string, event models.EventType, payload interface{}) bool {
	return h.router.NotifySession(sessionID, event, payload)
}

// EvictIdle removes every room that has been empty for at least ttl and
// returns the evicted rooms' final contents. A non-positive ttl evicts nothing.
func (h *Hub) EvictIdle(ttl time.Duration) []*models.Project {
	if ttl <= 0 {
		return nil
	}
	now := h.now()

	h.mu.Lock()
	defer h.mu.Unlock()

	var evicted []*models.Project
	for id, r := range h.rooms {
		r.mu.Lock()
		if r.idleLocked(ttl, now) {
			r.evicted = true
			evicted = append(evicted, models.ProjectFromState(id, r.snapshotLocked()))
			delete(h.rooms, id)
		}
		r.mu.Unlock()
	}
	if len(evicted) > 0 {
		metrics.RoomsEvicted.Add(float64(len(evicted)))
		metrics.ActiveRooms.Set(float64(len(h.rooms)))
	}
	return evicted
}

// CloseAll closes every connected session. Used on shutdown.
func (h *Hub) CloseAll() {
	for _, c := range h.registry.Clients() {
		c.Close()
	}
}
