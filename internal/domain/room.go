package domain

import (
	"fmt"
	"time"
)

// Room is a named group of users sharing a message stream. Rooms are owned
// exclusively by the registry; everything outside it works on snapshots.
// A room exists iff it has at least one member, and OwnerID always refers
// to a current member.
type Room struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OwnerID      string    `json:"ownerId"`
	Users        []User    `json:"users"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}

// NewRoom builds a room with its creator as sole member and owner.
func NewRoom(id string, owner User, now time.Time) *Room {
	return &Room{
		ID:           id,
		Name:         fmt.Sprintf("Room %s", id),
		OwnerID:      owner.ID,
		Users:        []User{owner},
		CreatedAt:    now,
		LastActivity: now,
	}
}

// Member returns the member with the given user ID.
func (r *Room) Member(userID string) (User, bool) {
	for _, u := range r.Users {
		if u.ID == userID {
			return u, true
		}
	}
	return User{}, false
}

// RemoveUser drops the member with the given ID, preserving join order of
// the rest. It reports whether a member was removed.
func (r *Room) RemoveUser(userID string) bool {
	for i, u := range r.Users {
		if u.ID == userID {
			r.Users = append(r.Users[:i], r.Users[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot returns a deep copy safe to hand outside the registry lock.
func (r *Room) Snapshot() Room {
	cp := *r
	cp.Users = make([]User, len(r.Users))
	copy(cp.Users, r.Users)
	return cp
}
