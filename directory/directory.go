// Package directory tracks live connections and their room assignments. It is
// the single authority for which user sits on which connection in which room.
package directory

import (
	"sync"

	"drawtogether-server/domain"
)

type binding struct {
	userID string
	roomID string
}

// Directory holds every open connection plus the (user, room) binding for
// connections that have joined a room. A connection is bound to at most one
// room; binding again replaces the previous assignment.
type Directory struct {
	mu       sync.RWMutex
	conns    map[string]domain.Connection
	bindings map[string]binding
}

func New() *Directory {
	return &Directory{
		conns:    make(map[string]domain.Connection),
		bindings: make(map[string]binding),
	}
}

// Register records a newly opened connection.
func (d *Directory) Register(conn domain.Connection) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conns[conn.ID()] = conn
}

// Unregister forgets a closed connection and any binding it still had.
func (d *Directory) Unregister(connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.conns, connID)
	delete(d.bindings, connID)
}

// Bind assigns the connection to (userID, roomID), replacing any prior
// assignment.
func (d *Directory) Bind(connID, userID, roomID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bindings[connID] = binding{userID: userID, roomID: roomID}
}

// Unbind removes and returns the connection's binding. A second call is a
// no-op reporting ok=false.
func (d *Directory) Unbind(connID string) (userID, roomID string, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.bindings[connID]
	if !ok {
		return "", "", false
	}
	delete(d.bindings, connID)
	return b.userID, b.roomID, true
}

func (d *Directory) Lookup(connID string) (userID, roomID string, ok bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	b, ok := d.bindings[connID]
	if !ok {
		return "", "", false
	}
	return b.userID, b.roomID, true
}

// MembersOf returns a snapshot of the connections currently bound to roomID.
func (d *Directory) MembersOf(roomID string) []domain.Connection {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var members []domain.Connection
	for connID, b := range d.bindings {
		if b.roomID != roomID {
			continue
		}
		if conn, ok := d.conns[connID]; ok {
			members = append(members, conn)
		}
	}
	return members
}

// All returns a snapshot of every open connection.
func (d *Directory) All() []domain.Connection {
	d.mu.RLock()
	defer d.mu.RUnlock()

	conns := make([]domain.Connection, 0, len(d.conns))
	for _, conn := range d.conns {
		conns = append(conns, conn)
	}
	return conns
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.conns)
}
