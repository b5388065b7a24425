package room

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawtogether-server/domain"
)

func TestRoom_AddParticipant(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		setup    func(*Room)
		userID   string
		want     bool
	}{
		{
			name:     "join empty room",
			capacity: 2,
			setup:    func(r *Room) {},
			userID:   "alice",
			want:     true,
		},
		{
			name:     "duplicate join rejected",
			capacity: 4,
			setup: func(r *Room) {
				r.AddParticipant("alice")
			},
			userID: "alice",
			want:   false,
		},
		{
			name:     "full room rejected",
			capacity: 2,
			setup: func(r *Room) {
				r.AddParticipant("alice")
				r.AddParticipant("bob")
			},
			userID: "carol",
			want:   false,
		},
		{
			name:     "emptied room rejected",
			capacity: 4,
			setup: func(r *Room) {
				r.AddParticipant("alice")
				r.RemoveParticipant("alice")
			},
			userID: "bob",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRoom("room1", "Test Room", tt.capacity)
			tt.setup(r)

			assert.Equal(t, tt.want, r.AddParticipant(tt.userID))
		})
	}
}

func TestRoom_ConcurrentJoinsNeverOvershootCapacity(t *testing.T) {
	const capacity = 10
	const joiners = 50

	r := newRoom("room1", "Crowded", capacity)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if r.AddParticipant(fmt.Sprintf("user-%d", n)) {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, capacity, succeeded)
	assert.Equal(t, capacity, r.Count())
}

func TestRoom_RemoveParticipant(t *testing.T) {
	r := newRoom("room1", "Test Room", 4)
	require.True(t, r.AddParticipant("alice"))
	require.True(t, r.AddParticipant("bob"))

	removed, empty := r.RemoveParticipant("alice")
	assert.True(t, removed)
	assert.False(t, empty)

	removed, empty = r.RemoveParticipant("alice")
	assert.False(t, removed, "second removal must be a no-op")
	assert.False(t, empty)

	removed, empty = r.RemoveParticipant("bob")
	assert.True(t, removed)
	assert.True(t, empty, "last removal must report the room empty")
}

func TestRoom_ConcurrentLeavesReportEmptyOnce(t *testing.T) {
	const members = 20

	r := newRoom("room1", "Test Room", members)
	for i := 0; i < members; i++ {
		require.True(t, r.AddParticipant(fmt.Sprintf("user-%d", i)))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	emptyCount := 0

	for i := 0; i < members; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, empty := r.RemoveParticipant(fmt.Sprintf("user-%d", n)); empty {
				mu.Lock()
				emptyCount++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, emptyCount, "exactly one leaver observes the empty room")
	assert.Equal(t, 0, r.Count())
}

func TestRoom_EventOrdering(t *testing.T) {
	r := newRoom("room1", "Test Room", 4)

	for i := 0; i < 25; i++ {
		r.AppendEvent(domain.DrawEvent{
			ID:        fmt.Sprintf("ev-%d", i),
			RoomID:    "room1",
			UserID:    fmt.Sprintf("user-%d", i%3),
			Timestamp: time.Now(),
			Type:      domain.StrokeMove,
		})
	}

	events := r.Events()
	require.Len(t, events, 25)
	for i, ev := range events {
		assert.Equal(t, fmt.Sprintf("ev-%d", i), ev.ID)
	}
}

func TestRoom_SnapshotsAreCopies(t *testing.T) {
	r := newRoom("room1", "Test Room", 4)
	require.True(t, r.AddParticipant("alice"))
	r.AppendEvent(domain.DrawEvent{ID: "ev-1", Type: domain.StrokeStart})

	participants := r.Participants()
	events := r.Events()
	participants[0] = "mallory"
	events[0].ID = "tampered"

	assert.Equal(t, []string{"alice"}, r.Participants())
	assert.Equal(t, "ev-1", r.Events()[0].ID)
}

func TestRoom_Summary(t *testing.T) {
	r := newRoom("room1", "Art Jam", 2)
	require.True(t, r.AddParticipant("alice"))

	s := r.Summary()
	assert.Equal(t, "room1", s.ID)
	assert.Equal(t, "Art Jam", s.Name)
	assert.Equal(t, 2, s.MaxParticipants)
	assert.Equal(t, 1, s.CurrentParticipantsCount)

	_, err := time.Parse(time.RFC3339, s.CreatedAt)
	assert.NoError(t, err)
}
