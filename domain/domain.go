package domain

import "time"

// EventType classifies a drawing action within a room.
type EventType string

const (
	StrokeStart EventType = "STROKE_START"
	StrokeMove  EventType = "STROKE_MOVE"
	StrokeEnd   EventType = "STROKE_END"
	ClearCanvas EventType = "CLEAR_CANVAS"
	Undo        EventType = "UNDO"
	Redo        EventType = "REDO"
)

func (t EventType) Valid() bool {
	switch t {
	case StrokeStart, StrokeMove, StrokeEnd, ClearCanvas, Undo, Redo:
		return true
	}
	return false
}

// DrawData carries the stroke geometry and style of a drawing event.
type DrawData struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Color       string  `json:"color"`
	StrokeWidth float64 `json:"strokeWidth"`
	Tool        string  `json:"tool"`
}

// DrawEvent is one immutable record in a room's event log.
type DrawEvent struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	DrawData  *DrawData `json:"drawData,omitempty"`
}

// RoomSummary is the point-in-time view of a room used in listings.
type RoomSummary struct {
	ID                       string `json:"id"`
	Name                     string `json:"name"`
	MaxParticipants          int    `json:"maxParticipants"`
	CurrentParticipantsCount int    `json:"currentParticipantsCount"`
	CreatedAt                string `json:"createdAt"`
}

// DrawInput is the client-supplied eventData of a DRAW_EVENT action.
// Pointer fields distinguish absent from zero-valued JSON fields.
type DrawInput struct {
	Type        string   `json:"type"`
	X           *float64 `json:"x"`
	Y           *float64 `json:"y"`
	Color       *string  `json:"color"`
	StrokeWidth *float64 `json:"strokeWidth"`
	Tool        *string  `json:"tool"`
}

// Data returns the stroke payload, or nil when any geometry field is missing.
// The tool defaults to "brush" when not provided.
func (in DrawInput) Data() *DrawData {
	if in.X == nil || in.Y == nil || in.Color == nil || in.StrokeWidth == nil {
		return nil
	}
	tool := "brush"
	if in.Tool != nil && *in.Tool != "" {
		tool = *in.Tool
	}
	return &DrawData{
		X:           *in.X,
		Y:           *in.Y,
		Color:       *in.Color,
		StrokeWidth: *in.StrokeWidth,
		Tool:        tool,
	}
}

// Connection is a live transport connection the server can push frames to.
type Connection interface {
	ID() string
	Send(data []byte) error
	Close() error
}

// SessionHandler receives transport lifecycle and message notifications.
type SessionHandler interface {
	HandleOpen(conn Connection)
	HandleMessage(conn Connection, data []byte)
	HandleClose(conn Connection)
}

// Router executes the decoded client actions against room and connection
// state and performs the resulting fan-out.
type Router interface {
	Connected(conn Connection)
	Disconnected(conn Connection)
	CreateRoom(conn Connection, name string, maxUsers int)
	JoinRoom(conn Connection, roomID, userID string)
	LeaveRoom(conn Connection)
	DrawEvent(conn Connection, input DrawInput)
	ListRooms(conn Connection)
}
