package directory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockConn struct {
	id string
}

func (m *mockConn) ID() string             { return m.id }
func (m *mockConn) Send(data []byte) error { return nil }
func (m *mockConn) Close() error           { return nil }

func TestDirectory_BindAndLookup(t *testing.T) {
	d := New()
	conn := &mockConn{id: "c1"}
	d.Register(conn)

	_, _, ok := d.Lookup("c1")
	assert.False(t, ok, "unbound connection has no assignment")

	d.Bind("c1", "alice", "room1")
	userID, roomID, ok := d.Lookup("c1")
	require.True(t, ok)
	assert.Equal(t, "alice", userID)
	assert.Equal(t, "room1", roomID)
}

func TestDirectory_BindReplacesPriorBinding(t *testing.T) {
	d := New()
	d.Register(&mockConn{id: "c1"})

	d.Bind("c1", "alice", "room1")
	d.Bind("c1", "alice", "room2")

	_, roomID, ok := d.Lookup("c1")
	require.True(t, ok)
	assert.Equal(t, "room2", roomID)
	assert.Empty(t, d.MembersOf("room1"), "old room must not keep the connection")
}

func TestDirectory_UnbindIsIdempotent(t *testing.T) {
	d := New()
	d.Register(&mockConn{id: "c1"})
	d.Bind("c1", "alice", "room1")

	userID, roomID, ok := d.Unbind("c1")
	require.True(t, ok)
	assert.Equal(t, "alice", userID)
	assert.Equal(t, "room1", roomID)

	_, _, ok = d.Unbind("c1")
	assert.False(t, ok, "second unbind is a no-op")
}

func TestDirectory_MembersOf(t *testing.T) {
	d := New()
	c1 := &mockConn{id: "c1"}
	c2 := &mockConn{id: "c2"}
	c3 := &mockConn{id: "c3"}
	for _, c := range []*mockConn{c1, c2, c3} {
		d.Register(c)
	}
	d.Bind("c1", "alice", "room1")
	d.Bind("c2", "bob", "room1")
	d.Bind("c3", "carol", "room2")

	members := d.MembersOf("room1")
	require.Len(t, members, 2)
	ids := []string{members[0].ID(), members[1].ID()}
	assert.ElementsMatch(t, []string{"c1", "c2"}, ids)

	assert.Empty(t, d.MembersOf("empty-room"))
}

func TestDirectory_UnregisterDropsBinding(t *testing.T) {
	d := New()
	d.Register(&mockConn{id: "c1"})
	d.Bind("c1", "alice", "room1")

	d.Unregister("c1")

	_, _, ok := d.Lookup("c1")
	assert.False(t, ok)
	assert.Empty(t, d.All())
	assert.Equal(t, 0, d.Len())
}

func TestDirectory_All(t *testing.T) {
	d := New()
	d.Register(&mockConn{id: "c1"})
	d.Register(&mockConn{id: "c2"})

	assert.Len(t, d.All(), 2)
	assert.Equal(t, 2, d.Len())
}

func TestDirectory_ConcurrentBindUnbind(t *testing.T) {
	d := New()
	const conns = 20

	for i := 0; i < conns; i++ {
		d.Register(&mockConn{id: fmt.Sprintf("c%d", i)})
	}

	var wg sync.WaitGroup
	for i := 0; i < conns; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("c%d", n)
			for j := 0; j < 100; j++ {
				d.Bind(id, "user", "room1")
				d.Unbind(id)
			}
			d.Bind(id, "user", "room1")
		}(i)
	}
	wg.Wait()

	assert.Len(t, d.MembersOf("room1"), conns, "last write wins for every connection")
}
