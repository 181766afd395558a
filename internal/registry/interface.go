package registry

import (
	"errors"

	"github.com/hallway-chat/hallway/internal/domain"
)

var (
	ErrExists   = errors.New("room already exists")
	ErrNotFound = errors.New("room not found")
)

// Registry is the single source of truth for rooms. Every mutation runs as
// one atomic step; readers only ever see fully-applied room states, and all
// results are snapshots that callers may not mutate shared state through.
type Registry interface {
	// Create inserts the room, failing with ErrExists if the id is taken.
	// The existence check and the insert are one atomic operation.
	Create(room *domain.Room) error

	// Get returns a snapshot of the room.
	Get(roomID string) (domain.Room, bool)

	// Update runs fn on the live room inside the registry's critical
	// section; fn is expected to either fully apply or not touch the
	// room. A room exists iff it has members: if fn succeeds and leaves
	// the member list empty, the room is removed in the same critical
	// section. Returns ErrNotFound if the room does not exist.
	Update(roomID string, fn func(*domain.Room) error) error

	// Delete removes the room if present and reports whether it was.
	Delete(roomID string) bool

	// List returns snapshots of all rooms.
	List() []domain.Room

	// Len returns the number of rooms.
	Len() int
}
