package registry

import (
	"sync"

	"github.com/hallway-chat/hallway/internal/domain"
)

// memoryRegistry keeps all rooms in one mutex-guarded map. Room operations
// never block on I/O, so a single lock gives every operation the per-room
// critical section the lifecycle invariants need.
type memoryRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() Registry {
	return &memoryRegistry{
		rooms: make(map[string]*domain.Room),
	}
}

func (r *memoryRegistry) Create(room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room.ID]; ok {
		return ErrExists
	}
	r.rooms[room.ID] = room
	return nil
}

func (r *memoryRegistry) Get(roomID string) (domain.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return domain.Room{}, false
	}
	return room.Snapshot(), true
}

func (r *memoryRegistry) Update(roomID string, fn func(*domain.Room) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return ErrNotFound
	}
	if err := fn(room); err != nil {
		return err
	}
	if len(room.Users) == 0 {
		delete(r.rooms, roomID)
	}
	return nil
}

func (r *memoryRegistry) Delete(roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[roomID]; !ok {
		return false
	}
	delete(r.rooms, roomID)
	return true
}

func (r *memoryRegistry) List() []domain.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room.Snapshot())
	}
	return out
}

func (r *memoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
