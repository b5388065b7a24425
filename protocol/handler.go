// Package protocol decodes the inbound action envelope and dispatches each
// action to the router. Malformed or unrecognized input is answered with an
// ERROR reply to the sender only.
package protocol

import (
	"encoding/json"
	"log/slog"

	"drawtogether-server/domain"
)

// request is the inbound envelope. Optional fields are pointers so a missing
// field can be told apart from a zero value.
type request struct {
	Action    string            `json:"action"`
	RoomName  *string           `json:"roomName"`
	MaxUsers  *int              `json:"maxUsers"`
	RoomID    *string           `json:"roomId"`
	UserID    *string           `json:"userId"`
	EventData *domain.DrawInput `json:"eventData"`
}

// Handler implements domain.SessionHandler on top of a router.
type Handler struct {
	router domain.Router
}

func NewHandler(router domain.Router) *Handler {
	return &Handler{router: router}
}

func (h *Handler) HandleOpen(conn domain.Connection) {
	h.router.Connected(conn)
}

func (h *Handler) HandleClose(conn domain.Connection) {
	h.router.Disconnected(conn)
}

func (h *Handler) HandleMessage(conn domain.Connection, data []byte) {
	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		slog.Warn("invalid message", "connId", conn.ID(), "error", err)
		h.respondError(conn, "Malformed message")
		return
	}

	switch req.Action {
	case domain.ActionCreateRoom:
		if req.RoomName == nil || req.MaxUsers == nil {
			h.respondError(conn, "Missing parameters: roomName and maxUsers are required")
			return
		}
		h.router.CreateRoom(conn, *req.RoomName, *req.MaxUsers)

	case domain.ActionJoinRoom:
		if req.RoomID == nil || req.UserID == nil {
			h.respondError(conn, "Missing parameters: roomId and userId are required")
			return
		}
		h.router.JoinRoom(conn, *req.RoomID, *req.UserID)

	case domain.ActionLeaveRoom:
		h.router.LeaveRoom(conn)

	case domain.ActionDrawEvent:
		if req.EventData == nil {
			h.respondError(conn, "Missing parameter: eventData is required")
			return
		}
		h.router.DrawEvent(conn, *req.EventData)

	case domain.ActionGetRooms:
		h.router.ListRooms(conn)

	default:
		slog.Warn("unrecognized action", "connId", conn.ID(), "action", req.Action)
		h.respondError(conn, "Unrecognized action: "+req.Action)
	}
}

func (h *Handler) respondError(conn domain.Connection, message string) {
	data, err := json.Marshal(domain.NewEnvelope(domain.TypeError, message, nil))
	if err != nil {
		slog.Error("marshal error", "error", err)
		return
	}
	if err := conn.Send(data); err != nil {
		slog.Warn("send failed", "connId", conn.ID(), "error", err)
	}
}
