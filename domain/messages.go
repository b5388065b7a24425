package domain

import "time"

// Inbound action names.
const (
	ActionCreateRoom = "CREATE_ROOM"
	ActionJoinRoom   = "JOIN_ROOM"
	ActionLeaveRoom  = "LEAVE_ROOM"
	ActionDrawEvent  = "DRAW_EVENT"
	ActionGetRooms   = "GET_ROOMS"
)

// Outbound envelope types.
const (
	TypeConnectionEstablished = "CONNECTION_ESTABLISHED"
	TypeRoomCreated           = "ROOM_CREATED"
	TypeRoomJoined            = "ROOM_JOINED"
	TypeRoomLeft              = "ROOM_LEFT"
	TypeUserJoined            = "USER_JOINED"
	TypeUserLeft              = "USER_LEFT"
	TypeRoomsList             = "ROOMS_LIST"
	TypeRoomsUpdated          = "ROOMS_UPDATED"
	TypeDrawEvent             = "DRAW_EVENT"
	TypeError                 = "ERROR"
)

// Envelope frames every reply and broadcast sent to a client. Data holds one
// of the payload structs below, matching Type.
type Envelope struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// NewEnvelope stamps an envelope with the current time.
func NewEnvelope(msgType, message string, data any) Envelope {
	return Envelope{
		Type:      msgType,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	}
}

// RoomCreated is the ROOM_CREATED payload sent to the creating client.
type RoomCreated struct {
	RoomID                   string `json:"roomId"`
	RoomName                 string `json:"roomName"`
	MaxParticipants          int    `json:"maxParticipants"`
	CurrentParticipantsCount int    `json:"currentParticipantsCount"`
	CreatedAt                string `json:"createdAt"`
}

// RoomJoined is the ROOM_JOINED payload: the full room state a client needs
// to render the session it just entered.
type RoomJoined struct {
	RoomID                   string      `json:"roomId"`
	RoomName                 string      `json:"roomName"`
	MaxParticipants          int         `json:"maxParticipants"`
	CurrentParticipantsCount int         `json:"currentParticipantsCount"`
	DrawEvents               []DrawEvent `json:"drawEvents"`
	Participants             []string    `json:"participants"`
}

// Presence is the shared payload of USER_JOINED and USER_LEFT notices.
type Presence struct {
	UserID                   string   `json:"userId"`
	RoomID                   string   `json:"roomId"`
	Participants             []string `json:"participants"`
	MaxParticipants          int      `json:"maxParticipants"`
	CurrentParticipantsCount int      `json:"currentParticipantsCount"`
}

// DrawEventPayload is the DRAW_EVENT payload fanned out to room members.
type DrawEventPayload struct {
	EventID   string    `json:"eventId"`
	UserID    string    `json:"userId"`
	Timestamp string    `json:"timestamp"`
	Type      EventType `json:"type"`
	DrawData  *DrawData `json:"drawData,omitempty"`
}

// RoomList is the payload of ROOMS_LIST replies and ROOMS_UPDATED broadcasts.
type RoomList struct {
	Rooms []RoomSummary `json:"rooms"`
}
