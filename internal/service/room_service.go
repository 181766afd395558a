package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/hallway-chat/hallway/internal/audit"
	"github.com/hallway-chat/hallway/internal/domain"
	"github.com/hallway-chat/hallway/internal/hub"
	"github.com/hallway-chat/hallway/internal/presence"
	"github.com/hallway-chat/hallway/internal/registry"
	"github.com/hallway-chat/hallway/pkg/log"
)

var (
	ErrRoomExists   = errors.New("room already exists")
	ErrRoomNotFound = errors.New("room not found")
	ErrUnauthorized = errors.New("requester is not the room owner")
	ErrNotInRoom    = errors.New("not in a room")
	ErrSelfKick     = errors.New("cannot kick yourself")
	ErrNotMember    = errors.New("user is not a member of the room")
)

type roomService struct {
	hub      *hub.Hub
	registry registry.Registry
	presence *presence.Tracker
	clock    func() time.Time
}

// NewRoomService creates the lifecycle/relay service backed by the given
// hub, registry and presence tracker.
func NewRoomService(h *hub.Hub, reg registry.Registry, tracker *presence.Tracker) RoomService {
	return &roomService{
		hub:      h,
		registry: reg,
		presence: tracker,
		clock:    time.Now,
	}
}

func (s *roomService) HandleCreateRoom(ctx context.Context, c *hub.Client, roomID, username string) error {
	// Joining while bound is leave-then-join, never additive.
	if c.Session.IsInRoom() {
		s.leaveCurrent(ctx, c)
	}

	user := domain.NewUser(username)
	now := s.clock().UTC()
	room := domain.NewRoom(roomID, user, now)
	// Snapshot before the registry takes ownership of the room.
	snap := room.Snapshot()

	if err := s.registry.Create(room); err != nil {
		c.SendEvent(&domain.AckEvent{Event: domain.EventAck, Op: domain.EventCreateRoom, Code: domain.CodeRoomExists, Error: "Room already exists"})
		return ErrRoomExists
	}

	s.hub.JoinRoom(c, roomID)
	c.Session.Bind(roomID, user)

	c.SendEvent(&domain.AckEvent{Event: domain.EventAck, Op: domain.EventCreateRoom, Success: true, User: &user})
	c.SendEvent(&domain.RoomStateEvent{Event: domain.EventRoomState, Room: snap})

	note := domain.NewNotification(roomID, fmt.Sprintf("%s created the room", user.Username), now)
	s.hub.BroadcastToRoom(roomID, &domain.MessageEvent{Event: domain.EventUserJoined, Message: note}, "")

	audit.Log(ctx, audit.ActionCreateRoom, roomID, user.ID, "room created")
	return nil
}

func (s *roomService) HandleJoinRoom(ctx context.Context, c *hub.Client, roomID, username string) error {
	if c.Session.IsInRoom() {
		s.leaveCurrent(ctx, c)
	}

	user := domain.NewUser(username)
	now := s.clock().UTC()

	var snap domain.Room
	err := s.registry.Update(roomID, func(r *domain.Room) error {
		r.Users = append(r.Users, user)
		r.LastActivity = now
		snap = r.Snapshot()
		return nil
	})
	if err != nil {
		c.SendEvent(&domain.AckEvent{Event: domain.EventAck, Op: domain.EventJoinRoom, Code: domain.CodeRoomNotFound, Error: "Room does not exist"})
		return ErrRoomNotFound
	}

	s.hub.JoinRoom(c, roomID)
	c.Session.Bind(roomID, user)

	c.SendEvent(&domain.AckEvent{Event: domain.EventAck, Op: domain.EventJoinRoom, Success: true, User: &user})
	c.SendEvent(&domain.RoomStateEvent{Event: domain.EventRoomState, Room: snap})

	note := domain.NewNotification(roomID, fmt.Sprintf("%s joined the room", user.Username), now)
	s.hub.BroadcastToRoom(roomID, &domain.MessageEvent{Event: domain.EventUserJoined, Message: note}, "")

	audit.Log(ctx, audit.ActionJoinRoom, roomID, user.ID, "user joined room")
	return nil
}

// HandleLeaveRoom releases the sender's room binding. It is idempotent: an
// unbound session, or one bound to an already-deleted room, is a no-op.
func (s *roomService) HandleLeaveRoom(ctx context.Context, c *hub.Client) error {
	if !c.Session.IsInRoom() {
		return nil
	}
	return s.leaveCurrent(ctx, c)
}

// HandleDisconnect is the abrupt-exit path; it carries exactly the same
// semantics as an explicit leave.
func (s *roomService) HandleDisconnect(ctx context.Context, c *hub.Client) error {
	if !c.Session.IsInRoom() {
		return nil
	}
	roomID, userID, _ := c.Session.Current()
	audit.Log(ctx, audit.ActionDisconnect, roomID, userID, "client disconnected while in room")
	return s.leaveCurrent(ctx, c)
}

type removal struct {
	user         domain.User
	empty        bool
	ownerChanged bool
	newOwnerID   string
}

// removeMember takes one user out of a room inside the registry's critical
// section, applying the full removal policy: delete the room when it ends
// up empty, transfer ownership to the earliest remaining member when the
// owner left.
func (s *roomService) removeMember(roomID, userID string) (removal, error) {
	var out removal
	err := s.registry.Update(roomID, func(r *domain.Room) error {
		u, ok := r.Member(userID)
		if !ok {
			return ErrNotMember
		}
		r.RemoveUser(userID)
		out.user = u

		if len(r.Users) == 0 {
			out.empty = true
			return nil
		}
		if r.OwnerID == userID {
			r.OwnerID = r.Users[0].ID
			out.ownerChanged = true
			out.newOwnerID = r.OwnerID
		}
		return nil
	})
	return out, err
}

func (s *roomService) leaveCurrent(ctx context.Context, c *hub.Client) error {
	roomID, userID, username := c.Session.Current()
	if roomID == "" {
		return nil
	}

	s.hub.LeaveRoom(c, roomID)
	c.Session.Clear()
	s.presence.ClearUser(roomID, username)

	out, err := s.removeMember(roomID, userID)
	if err != nil {
		// Room or membership already gone; leave stays idempotent.
		return nil
	}

	now := s.clock().UTC()
	if out.empty {
		s.presence.ClearRoom(roomID)
		s.hub.DropRoom(roomID)
		s.hub.BroadcastToRoom(roomID, &domain.RoomDeletedEvent{Event: domain.EventRoomDeleted, RoomID: roomID}, "")
	} else if out.ownerChanged {
		s.hub.BroadcastToRoom(roomID, &domain.OwnerChangedEvent{Event: domain.EventOwnerChanged, OwnerID: out.newOwnerID}, "")
		audit.LogWithTarget(ctx, audit.ActionOwnerChange, roomID, userID, out.newOwnerID, "ownership transferred")
	}

	note := domain.NewNotification(roomID, fmt.Sprintf("%s left the room", out.user.Username), now)
	s.hub.BroadcastToRoom(roomID, &domain.MessageEvent{Event: domain.EventUserLeft, Message: note}, "")

	audit.Log(ctx, audit.ActionLeaveRoom, roomID, userID, "user left room")
	return nil
}

func (s *roomService) HandleKickUser(ctx context.Context, c *hub.Client, targetID string) error {
	roomID, requesterID, _ := c.Session.Current()
	if roomID == "" {
		c.SendEvent(domain.NewErrorEvent(domain.CodeNotInRoom, "Not in a room"))
		return ErrNotInRoom
	}
	if targetID == requesterID {
		c.SendEvent(domain.NewErrorEvent(domain.CodeBadRequest, "You cannot kick yourself"))
		return ErrSelfKick
	}

	var out removal
	err := s.registry.Update(roomID, func(r *domain.Room) error {
		if r.OwnerID != requesterID {
			return ErrUnauthorized
		}
		u, ok := r.Member(targetID)
		if !ok {
			return ErrNotMember
		}
		r.RemoveUser(targetID)
		out.user = u
		// The owner cannot be the target here (self-kick is rejected and
		// only the owner passes the check above), so no transfer and no
		// empty room on this path.
		return nil
	})
	switch {
	case errors.Is(err, registry.ErrNotFound):
		c.SendEvent(domain.NewErrorEvent(domain.CodeRoomNotFound, "Room does not exist"))
		return ErrRoomNotFound
	case errors.Is(err, ErrUnauthorized):
		l := log.Ctx(ctx)
		l.Warn().Str(log.FieldRoomID, roomID).Str(log.FieldUserID, requesterID).Str(audit.FieldTargetID, targetID).Msg("kick denied: requester is not the owner")
		c.SendEvent(domain.NewErrorEvent(domain.CodeUnauthorized, "Only the room owner can kick users"))
		return ErrUnauthorized
	case errors.Is(err, ErrNotMember):
		c.SendEvent(domain.NewErrorEvent(domain.CodeBadRequest, "User is not a member of the room"))
		return ErrNotMember
	case err != nil:
		return err
	}

	// Tell the target directly before its room binding is torn down, then
	// notify the rest of the room.
	kicked := &domain.UserKickedEvent{Event: domain.EventUserKicked, UserID: targetID}
	if target, ok := s.hub.ClientInRoom(roomID, targetID); ok {
		target.SendEvent(kicked)
		s.hub.LeaveRoom(target, roomID)
		target.Session.Clear()
	}
	s.presence.ClearUser(roomID, out.user.Username)

	s.hub.BroadcastToRoom(roomID, kicked, "")
	note := domain.NewNotification(roomID, fmt.Sprintf("%s was removed from the room", out.user.Username), s.clock().UTC())
	s.hub.BroadcastToRoom(roomID, &domain.MessageEvent{Event: domain.EventUserLeft, Message: note}, "")

	audit.LogWithTarget(ctx, audit.ActionKickUser, roomID, requesterID, targetID, "user kicked")
	return nil
}

func (s *roomService) HandleUpdateRoom(ctx context.Context, c *hub.Client, name string) error {
	roomID, userID, _ := c.Session.Current()
	if roomID == "" {
		c.SendEvent(domain.NewErrorEvent(domain.CodeNotInRoom, "Not in a room"))
		return ErrNotInRoom
	}

	var snap domain.Room
	err := s.registry.Update(roomID, func(r *domain.Room) error {
		// Owner-only, enforced here rather than trusted to the caller.
		if r.OwnerID != userID {
			return ErrUnauthorized
		}
		r.Name = name
		snap = r.Snapshot()
		return nil
	})
	switch {
	case errors.Is(err, registry.ErrNotFound):
		c.SendEvent(domain.NewErrorEvent(domain.CodeRoomNotFound, "Room does not exist"))
		return ErrRoomNotFound
	case errors.Is(err, ErrUnauthorized):
		l := log.Ctx(ctx)
		l.Warn().Str(log.FieldRoomID, roomID).Str(log.FieldUserID, userID).Msg("update denied: requester is not the owner")
		c.SendEvent(domain.NewErrorEvent(domain.CodeUnauthorized, "Only the room owner can update the room"))
		return ErrUnauthorized
	case err != nil:
		return err
	}

	s.hub.BroadcastToRoom(roomID, &domain.RoomUpdatedEvent{Event: domain.EventRoomUpdated, Room: snap}, "")

	audit.Log(ctx, audit.ActionUpdateRoom, roomID, userID, "room updated")
	return nil
}

func (s *roomService) HandleDeleteRoom(ctx context.Context, c *hub.Client) error {
	roomID, userID, _ := c.Session.Current()
	if roomID == "" {
		c.SendEvent(domain.NewErrorEvent(domain.CodeNotInRoom, "Not in a room"))
		return ErrNotInRoom
	}

	err := s.registry.Update(roomID, func(r *domain.Room) error {
		if r.OwnerID != userID {
			return ErrUnauthorized
		}
		// Emptying the member list deletes the room in the same critical
		// section (a room exists iff it has members).
		r.Users = nil
		return nil
	})
	switch {
	case errors.Is(err, registry.ErrNotFound):
		c.SendEvent(domain.NewErrorEvent(domain.CodeRoomNotFound, "Room does not exist"))
		return ErrRoomNotFound
	case errors.Is(err, ErrUnauthorized):
		l := log.Ctx(ctx)
		l.Warn().Str(log.FieldRoomID, roomID).Str(log.FieldUserID, userID).Msg("delete denied: requester is not the owner")
		c.SendEvent(domain.NewErrorEvent(domain.CodeUnauthorized, "Only the room owner can delete the room"))
		return ErrUnauthorized
	case err != nil:
		return err
	}

	// Deliver room-deleted to each member directly and unbind them; the
	// fan-out set is gone by the time a queued broadcast would run.
	deleted := &domain.RoomDeletedEvent{Event: domain.EventRoomDeleted, RoomID: roomID}
	for _, member := range s.hub.RoomClients(roomID) {
		member.SendEvent(deleted)
		member.Session.Clear()
	}
	s.hub.DropRoom(roomID)
	s.presence.ClearRoom(roomID)

	audit.Log(ctx, audit.ActionDeleteRoom, roomID, userID, "room deleted")
	return nil
}

func (s *roomService) Rooms(ctx context.Context) []domain.Room {
	rooms := s.registry.List()
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})
	return rooms
}

func (s *roomService) Room(ctx context.Context, roomID string) (domain.Room, error) {
	room, ok := s.registry.Get(roomID)
	if !ok {
		return domain.Room{}, ErrRoomNotFound
	}
	return room, nil
}
