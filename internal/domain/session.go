package domain

import (
	"sync"
	"time"
)

// Session binds one live connection to the room it currently participates
// in. A connection holds at most one binding; joining another room goes
// through an explicit leave first.
type Session struct {
	ClientID     string
	RoomID       string
	UserID       string
	Username     string
	CreatedAt    time.Time
	LastActiveAt time.Time
	mu           sync.RWMutex
}

func NewSession(clientID string) *Session {
	now := time.Now()
	return &Session{
		ClientID:     clientID,
		CreatedAt:    now,
		LastActiveAt: now,
	}
}

// Bind attaches the session to a room as the given user.
func (s *Session) Bind(roomID string, user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RoomID = roomID
	s.UserID = user.ID
	s.Username = user.Username
	s.LastActiveAt = time.Now()
}

// Clear drops the room binding.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RoomID = ""
	s.UserID = ""
	s.Username = ""
	s.LastActiveAt = time.Now()
}

// Current returns the bound room, user id and username.
func (s *Session) Current() (roomID, userID, username string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.RoomID, s.UserID, s.Username
}

// IsInRoom reports whether the session is bound to a room.
func (s *Session) IsInRoom() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.RoomID != ""
}

// UpdateActivity refreshes the last-active timestamp.
func (s *Session) UpdateActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActiveAt = time.Now()
}
