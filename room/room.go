package room

import (
	"sync"
	"time"

	"drawtogether-server/domain"
)

// Room is a bounded-capacity drawing session with an append-only event log.
// One mutex guards both the participant set and the log, so the capacity
// check-and-insert and the delete-on-empty handshake are atomic.
type Room struct {
	id              string
	name            string
	maxParticipants int
	createdAt       time.Time

	mu           sync.Mutex
	participants map[string]struct{}
	events       []domain.DrawEvent
	closed       bool
}

func newRoom(id, name string, maxParticipants int) *Room {
	return &Room{
		id:              id,
		name:            name,
		maxParticipants: maxParticipants,
		createdAt:       time.Now().UTC(),
		participants:    make(map[string]struct{}),
	}
}

func (r *Room) ID() string           { return r.id }
func (r *Room) Name() string         { return r.name }
func (r *Room) MaxParticipants() int { return r.maxParticipants }
func (r *Room) CreatedAt() time.Time { return r.createdAt }

// AddParticipant inserts userID if the room has capacity and the user is not
// already present. It refuses rooms that have been emptied and are awaiting
// deletion, so a late join cannot resurrect a room the registry is removing.
func (r *Room) AddParticipant(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || len(r.participants) >= r.maxParticipants {
		return false
	}
	if _, exists := r.participants[userID]; exists {
		return false
	}
	r.participants[userID] = struct{}{}
	return true
}

// RemoveParticipant removes userID and reports whether the removal emptied
// the room. Exactly one caller observes empty==true for a given room; that
// caller is responsible for deleting it from the registry.
func (r *Room) RemoveParticipant(userID string) (removed, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.participants[userID]; !exists {
		return false, false
	}
	delete(r.participants, userID)
	if len(r.participants) == 0 {
		r.closed = true
		return true, true
	}
	return true, false
}

// AppendEvent records ev in arrival order. It never fails and never reorders.
func (r *Room) AppendEvent(ev domain.DrawEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Participants returns an independent copy of the participant set.
func (r *Room) Participants() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.participants))
	for userID := range r.participants {
		out = append(out, userID)
	}
	return out
}

// Events returns an independent copy of the event log in append order.
func (r *Room) Events() []domain.DrawEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.DrawEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Room) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.participants)
}

// Summary returns the listing view of the room.
func (r *Room) Summary() domain.RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	return domain.RoomSummary{
		ID:                       r.id,
		Name:                     r.name,
		MaxParticipants:          r.maxParticipants,
		CurrentParticipantsCount: len(r.participants),
		CreatedAt:                r.createdAt.Format(time.RFC3339),
	}
}
