package service

import (
	"context"
	"errors"

	"github.com/hallway-chat/hallway/internal/domain"
	"github.com/hallway-chat/hallway/internal/hub"
	"github.com/hallway-chat/hallway/internal/registry"
	"github.com/hallway-chat/hallway/pkg/log"
)

// HandleSendMessage relays a chat message to every member of the sender's
// room, the sender included; the sender reconciles its own echo. The relay
// only touches the room's activity timestamp.
func (s *roomService) HandleSendMessage(ctx context.Context, c *hub.Client, content string) error {
	roomID, _, username := c.Session.Current()
	if roomID == "" {
		c.SendEvent(domain.NewErrorEvent(domain.CodeNotInRoom, "Not in a room"))
		return ErrNotInRoom
	}

	now := s.clock().UTC()
	err := s.registry.Update(roomID, func(r *domain.Room) error {
		r.LastActivity = now
		return nil
	})
	if errors.Is(err, registry.ErrNotFound) {
		l := log.Ctx(ctx)
		l.Warn().Str(log.FieldRoomID, roomID).Str(log.FieldUsername, username).Msg("message to nonexistent room dropped")
		c.SendEvent(domain.NewErrorEvent(domain.CodeRoomNotFound, "Room does not exist"))
		return ErrRoomNotFound
	}

	msg := domain.NewChatMessage(roomID, username, content, now)
	return s.hub.BroadcastToRoom(roomID, &domain.MessageEvent{Event: domain.EventReceiveMessage, Message: msg}, "")
}

// HandleTyping records the sender's typing flag and tells everyone else in
// the room. There is no server-side expiry; clearing a stale flag after an
// inactivity window is the client's job.
func (s *roomService) HandleTyping(ctx context.Context, c *hub.Client, isTyping bool) error {
	roomID, _, username := c.Session.Current()
	if roomID == "" {
		l := log.Ctx(ctx)
		l.Debug().Str(log.FieldClientID, c.ID).Msg("typing event from client not in a room")
		return nil
	}

	s.presence.Set(roomID, username, isTyping)

	return s.hub.BroadcastToRoom(roomID, &domain.TypingUpdateEvent{
		Event:    domain.EventTypingUpdate,
		Username: username,
		IsTyping: isTyping,
	}, c.ID)
}
