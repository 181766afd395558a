// Package presence tracks ephemeral per-room typing state. The state is
// keyed by (room, username) and carries no server-side timeout; clearing a
// stale flag after inactivity is the client's contract.
package presence

import (
	"sort"
	"sync"
)

// Tracker records who is currently typing in each room.
type Tracker struct {
	mu     sync.RWMutex
	typing map[string]map[string]struct{} // roomID -> usernames
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		typing: make(map[string]map[string]struct{}),
	}
}

// Set records or clears the typing flag for a username in a room.
func (t *Tracker) Set(roomID, username string, isTyping bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	users, ok := t.typing[roomID]
	if !ok {
		if !isTyping {
			return
		}
		users = make(map[string]struct{})
		t.typing[roomID] = users
	}

	if isTyping {
		users[username] = struct{}{}
		return
	}
	delete(users, username)
	if len(users) == 0 {
		delete(t.typing, roomID)
	}
}

// Typing returns the usernames currently typing in a room, sorted.
func (t *Tracker) Typing(roomID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	users, ok := t.typing[roomID]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(users))
	for u := range users {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// ClearUser drops a user's typing flag, e.g. when they leave the room.
func (t *Tracker) ClearUser(roomID, username string) {
	t.Set(roomID, username, false)
}

// ClearRoom drops all typing state for a room.
func (t *Tracker) ClearRoom(roomID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.typing, roomID)
}
