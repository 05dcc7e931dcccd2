package session

import (
	"sort"
	"sync"
	"time"

	"codesync/internal/models"
)

// Member is a session's presence inside one room.
type Member struct {
	SessionID string
	Username  string
	Cursor    models.CursorPosition
	JoinedAt  time.Time
}

// Room holds the shared file table and member set for one room id. Every
// field is guarded by mu; methods suffixed Locked expect the caller to hold it.
type Room struct {
	ID string

	mu          sync.Mutex
	members     map[string]*Member
	files       map[string]string
	currentFile *string
	emptySince  time.Time
	evicted     bool
}

func NewRoom(id string, now time.Time) *Room {
	return &Room{
		ID:         id,
		members:    make(map[string]*Member),
		files:      make(map[string]string),
		emptySince: now,
	}
}

func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

func (r *Room) Member(sessionID string) (Member, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[sessionID]
	if !ok {
		return Member{}, false
	}
	return *m, true
}

func (r *Room) Snapshot() models.RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() models.RoomState {
	files := make(map[string]string, len(r.files))
	for path, content := range r.files {
		files[path] = content
	}

	var current *string
	if r.currentFile != nil {
		c := *r.currentFile
		current = &c
	}

	members := make([]*Member, 0, len(r.members))
	for _, m := range r.members {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].JoinedAt.Equal(members[j].JoinedAt) {
			return members[i].SessionID < members[j].SessionID
		}
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})

	users := make([]models.UserInfo, 0, len(members))
	for _, m := range members {
		users = append(users, models.UserInfo{
			UserID:         m.SessionID,
			Username:       m.Username,
			CursorPosition: m.Cursor,
		})
	}

	return models.RoomState{Files: files, CurrentFile: current, Users: users}
}

func (r *Room) memberIDsLocked() []string {
	ids := make([]string, 0, len(r.members))
	for id := range r.members {
		ids = append(ids, id)
	}
	return ids
}

func (r *Room) removeMemberLocked(sessionID string, now time.Time) (*Member, bool) {
	m, ok := r.members[sessionID]
	if !ok {
		return nil, false
	}
	delete(r.members, sessionID)
	if len(r.members) == 0 {
		r.emptySince = now
	}
	return m, true
}

// idleLocked reports whether the room has had no members for at least ttl.
func (r *Room) idleLocked(ttl time.Duration, now time.Time) bool {
	return len(r.members) == 0 && !r.emptySince.IsZero() && now.Sub(r.emptySince) >= ttl
}
