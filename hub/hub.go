// Package hub routes client actions to room state and fans the resulting
// messages out to the affected connections.
package hub

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"drawtogether-server/directory"
	"drawtogether-server/domain"
	"drawtogether-server/room"
)

const (
	minRoomNameLen = 3
	minRoomUsers   = 2
	maxRoomUsers   = 20
)

// Hub implements domain.Router. Fan-out target sets are always computed after
// the membership mutation completes, and sends happen outside all locks.
type Hub struct {
	registry  *room.Registry
	directory *directory.Directory
}

func New() *Hub {
	return &Hub{
		registry:  room.NewRegistry(),
		directory: directory.New(),
	}
}

// Connected registers the connection and greets it.
func (h *Hub) Connected(conn domain.Connection) {
	h.directory.Register(conn)
	h.send(conn, domain.NewEnvelope(domain.TypeConnectionEstablished, "Connected to server", nil))
	slog.Info("connection opened", "connId", conn.ID())
}

// Disconnected runs the same membership-removal path as LeaveRoom but sends
// no direct reply, then forgets the connection.
func (h *Hub) Disconnected(conn domain.Connection) {
	h.leave(conn, false)
	h.directory.Unregister(conn.ID())
	slog.Info("connection closed", "connId", conn.ID())
}

func (h *Hub) CreateRoom(conn domain.Connection, name string, maxUsers int) {
	name = strings.TrimSpace(name)
	if name == "" {
		h.sendError(conn, "Room name must not be empty")
		return
	}
	if utf8.RuneCountInString(name) < minRoomNameLen {
		h.sendError(conn, "Room name must be at least 3 characters")
		return
	}
	if maxUsers < minRoomUsers || maxUsers > maxRoomUsers {
		h.sendError(conn, "Max participants must be between 2 and 20")
		return
	}

	r := h.registry.Create(name, maxUsers)
	slog.Info("room created", "roomId", r.ID(), "name", r.Name(), "maxParticipants", r.MaxParticipants())

	h.send(conn, domain.NewEnvelope(domain.TypeRoomCreated, "Room created", domain.RoomCreated{
		RoomID:                   r.ID(),
		RoomName:                 r.Name(),
		MaxParticipants:          r.MaxParticipants(),
		CurrentParticipantsCount: r.Count(),
		CreatedAt:                r.CreatedAt().Format(time.RFC3339),
	}))
	h.broadcastRoomList()
}

func (h *Hub) JoinRoom(conn domain.Connection, roomID, userID string) {
	r, ok := h.registry.Get(roomID)
	if !ok {
		h.sendError(conn, "Room not found")
		return
	}
	if !r.AddParticipant(userID) {
		h.sendError(conn, "Could not join room: it is full or you are already in it")
		return
	}
	h.directory.Bind(conn.ID(), userID, roomID)
	slog.Info("user joined room", "roomId", roomID, "userId", userID, "participants", r.Count())

	participants := r.Participants()
	h.send(conn, domain.NewEnvelope(domain.TypeRoomJoined, "You have joined the room", domain.RoomJoined{
		RoomID:                   roomID,
		RoomName:                 r.Name(),
		MaxParticipants:          r.MaxParticipants(),
		CurrentParticipantsCount: len(participants),
		DrawEvents:               r.Events(),
		Participants:             participants,
	}))
	h.broadcastToRoom(roomID, conn.ID(), domain.NewEnvelope(domain.TypeUserJoined, "A user joined the room", domain.Presence{
		UserID:                   userID,
		RoomID:                   roomID,
		Participants:             participants,
		MaxParticipants:          r.MaxParticipants(),
		CurrentParticipantsCount: len(participants),
	}))
	h.broadcastRoomList()
}

// LeaveRoom removes the caller from its room and confirms with ROOM_LEFT.
// Without a binding it is a no-op.
func (h *Hub) LeaveRoom(conn domain.Connection) {
	h.leave(conn, true)
}

func (h *Hub) leave(conn domain.Connection, notifyCaller bool) {
	userID, roomID, ok := h.directory.Unbind(conn.ID())
	if !ok {
		return
	}

	r, found := h.registry.Get(roomID)
	if found {
		removed, empty := r.RemoveParticipant(userID)
		if removed && empty {
			h.registry.Delete(roomID)
			slog.Info("room removed", "roomId", roomID)
		}
	}
	slog.Info("user left room", "roomId", roomID, "userId", userID)

	if notifyCaller {
		h.send(conn, domain.NewEnvelope(domain.TypeRoomLeft, "You have left the room", nil))
	}
	if found && r.Count() > 0 {
		participants := r.Participants()
		h.broadcastToRoom(roomID, conn.ID(), domain.NewEnvelope(domain.TypeUserLeft, "A user left the room", domain.Presence{
			UserID:                   userID,
			RoomID:                   roomID,
			Participants:             participants,
			MaxParticipants:          r.MaxParticipants(),
			CurrentParticipantsCount: len(participants),
		}))
	}
	h.broadcastRoomList()
}

func (h *Hub) DrawEvent(conn domain.Connection, input domain.DrawInput) {
	userID, roomID, ok := h.directory.Lookup(conn.ID())
	if !ok {
		h.sendError(conn, "You are not in a room")
		return
	}
	eventType := domain.EventType(input.Type)
	if !eventType.Valid() {
		h.sendError(conn, "Unknown draw event type: "+input.Type)
		return
	}
	r, found := h.registry.Get(roomID)
	if !found {
		h.sendError(conn, "Room not found")
		return
	}

	ev := domain.DrawEvent{
		ID:        uuid.New().String(),
		RoomID:    roomID,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Type:      eventType,
		DrawData:  input.Data(),
	}
	r.AppendEvent(ev)

	h.broadcastToRoom(roomID, conn.ID(), domain.NewEnvelope(domain.TypeDrawEvent, "Draw event", domain.DrawEventPayload{
		EventID:   ev.ID,
		UserID:    ev.UserID,
		Timestamp: ev.Timestamp.Format(time.RFC3339),
		Type:      ev.Type,
		DrawData:  ev.DrawData,
	}))
}

// ListRooms replies to the caller only; nothing is broadcast.
func (h *Hub) ListRooms(conn domain.Connection) {
	h.send(conn, domain.NewEnvelope(domain.TypeRoomsList, "Room list", domain.RoomList{Rooms: h.registry.List()}))
}

// Stats reports the current number of rooms and open connections.
func (h *Hub) Stats() (rooms, clients int) {
	return h.registry.Len(), h.directory.Len()
}

func (h *Hub) sendError(conn domain.Connection, message string) {
	h.send(conn, domain.NewEnvelope(domain.TypeError, message, nil))
}

func (h *Hub) send(conn domain.Connection, env domain.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		slog.Error("marshal error", "type", env.Type, "error", err)
		return
	}
	if err := conn.Send(data); err != nil {
		slog.Warn("send failed", "connId", conn.ID(), "type", env.Type, "error", err)
	}
}

// broadcastToRoom delivers env to every member of roomID except excludeID.
// A failed send is logged and skipped; it never aborts the fan-out.
func (h *Hub) broadcastToRoom(roomID, excludeID string, env domain.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		slog.Error("marshal error", "type", env.Type, "error", err)
		return
	}
	for _, conn := range h.directory.MembersOf(roomID) {
		if conn.ID() == excludeID {
			continue
		}
		if err := conn.Send(data); err != nil {
			slog.Warn("send failed", "connId", conn.ID(), "type", env.Type, "error", err)
		}
	}
}

// broadcastRoomList pushes the updated room listing to every connection.
func (h *Hub) broadcastRoomList() {
	env := domain.NewEnvelope(domain.TypeRoomsUpdated, "Room list updated", domain.RoomList{Rooms: h.registry.List()})
	data, err := json.Marshal(env)
	if err != nil {
		slog.Error("marshal error", "type", env.Type, "error", err)
		return
	}
	for _, conn := range h.directory.All() {
		if err := conn.Send(data); err != nil {
			slog.Warn("send failed", "connId", conn.ID(), "type", env.Type, "error", err)
		}
	}
}
