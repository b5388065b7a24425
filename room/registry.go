package room

import (
	"sync"

	"github.com/google/uuid"

	"drawtogether-server/domain"
)

// Registry maps room ids to live rooms. Structural changes (create, delete)
// are guarded here; per-room state is guarded by the room's own mutex.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// Create constructs a room with a fresh id and stores it. Names are not
// required to be unique.
func (reg *Registry) Create(name string, maxParticipants int) *Room {
	r := newRoom(uuid.New().String(), name, maxParticipants)

	reg.mu.Lock()
	reg.rooms[r.id] = r
	reg.mu.Unlock()

	return r
}

func (reg *Registry) Get(id string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[id]
	return r, ok
}

func (reg *Registry) Exists(id string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	_, ok := reg.rooms[id]
	return ok
}

func (reg *Registry) Delete(id string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	_, ok := reg.rooms[id]
	delete(reg.rooms, id)
	return ok
}

// List returns a point-in-time summary of every room.
func (reg *Registry) List() []domain.RoomSummary {
	reg.mu.RLock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.mu.RUnlock()

	summaries := make([]domain.RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		summaries = append(summaries, r.Summary())
	}
	return summaries
}

func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}
