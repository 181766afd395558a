package domain

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Message kinds.
const (
	MessageChat         = "chat"
	MessageNotification = "notification"
)

// SystemUsername is the author of join/leave/kick notifications.
const SystemUsername = "System"

// Message is a single relayed payload, either user-authored chat or a
// system notification. Messages are immutable and never persisted.
type Message struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
	RoomID    string    `json:"roomId"`
}

// NewChatMessage builds a user-authored message. IDs are ULIDs so they sort
// in relay order within a room.
func NewChatMessage(roomID, username, content string, now time.Time) Message {
	return Message{
		ID:        ulid.Make().String(),
		Type:      MessageChat,
		Content:   content,
		Username:  username,
		Timestamp: now,
		RoomID:    roomID,
	}
}

// NewNotification builds a system-authored message.
func NewNotification(roomID, content string, now time.Time) Message {
	return Message{
		ID:        ulid.Make().String(),
		Type:      MessageNotification,
		Content:   content,
		Username:  SystemUsername,
		Timestamp: now,
		RoomID:    roomID,
	}
}
