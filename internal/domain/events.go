package domain

// Client -> server event names.
const (
	EventCreateRoom  = "create-room"
	EventJoinRoom    = "join-room"
	EventLeaveRoom   = "leave-room"
	EventKickUser    = "kick-user"
	EventUpdateRoom  = "update-room"
	EventDeleteRoom  = "delete-room"
	EventUserTyping  = "user-typing"
	EventSendMessage = "send-message"
)

// Server -> client event names.
const (
	EventAck            = "ack"
	EventRoomState      = "room-state"
	EventUserJoined     = "user-joined"
	EventUserLeft       = "user-left"
	EventReceiveMessage = "receive-message"
	EventOwnerChanged   = "owner-changed"
	EventUserKicked     = "user-kicked"
	EventRoomUpdated    = "room-updated"
	EventRoomDeleted    = "room-deleted"
	EventTypingUpdate   = "typing-update"
	EventError          = "error"
)

// Error codes carried by error events and acks.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeBadRequest   = "BAD_REQUEST"
	CodeRoomExists   = "ROOM_EXISTS"
	CodeRoomNotFound = "ROOM_NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotInRoom    = "NOT_IN_ROOM"
)

// EventEnvelope is the base structure of every websocket frame; the event
// name selects the concrete payload type.
type EventEnvelope struct {
	Event string `json:"event"`
}

// Client -> server payloads.

type CreateRoomEvent struct {
	Event    string `json:"event"`
	Username string `json:"username"`
	RoomID   string `json:"roomId"`
}

type JoinRoomEvent struct {
	Event    string `json:"event"`
	Username string `json:"username"`
	RoomID   string `json:"roomId"`
}

type KickUserEvent struct {
	Event  string `json:"event"`
	UserID string `json:"userId"`
}

type UpdateRoomEvent struct {
	Event string `json:"event"`
	Name  string `json:"name"`
}

type TypingEvent struct {
	Event    string `json:"event"`
	IsTyping bool   `json:"isTyping"`
}

type SendMessageEvent struct {
	Event   string `json:"event"`
	Content string `json:"content"`
}

// Server -> client payloads.

// AckEvent answers create-room and join-room synchronously on the sender's
// connection; it is never broadcast.
type AckEvent struct {
	Event   string `json:"event"`
	Op      string `json:"op"`
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
	User    *User  `json:"user,omitempty"`
}

type RoomStateEvent struct {
	Event string `json:"event"`
	Room  Room   `json:"room"`
}

// MessageEvent carries chat messages and system notifications
// (receive-message, user-joined, user-left).
type MessageEvent struct {
	Event   string  `json:"event"`
	Message Message `json:"message"`
}

type OwnerChangedEvent struct {
	Event   string `json:"event"`
	OwnerID string `json:"ownerId"`
}

type UserKickedEvent struct {
	Event  string `json:"event"`
	UserID string `json:"userId"`
}

type RoomUpdatedEvent struct {
	Event string `json:"event"`
	Room  Room   `json:"room"`
}

type RoomDeletedEvent struct {
	Event  string `json:"event"`
	RoomID string `json:"roomId"`
}

type TypingUpdateEvent struct {
	Event    string `json:"event"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

type ErrorEvent struct {
	Event   string `json:"event"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorEvent builds an error event for the given code.
func NewErrorEvent(code, message string) *ErrorEvent {
	return &ErrorEvent{
		Event:   EventError,
		Code:    code,
		Message: message,
	}
}
