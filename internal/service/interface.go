package service

import (
	"context"

	"github.com/hallway-chat/hallway/internal/domain"
	"github.com/hallway-chat/hallway/internal/hub"
)

// RoomService is the authoritative room lifecycle and relay logic. Handlers
// validate input and dispatch here; all registry mutations and event
// emission happen inside these operations.
type RoomService interface {
	HandleCreateRoom(ctx context.Context, c *hub.Client, roomID, username string) error
	HandleJoinRoom(ctx context.Context, c *hub.Client, roomID, username string) error
	HandleLeaveRoom(ctx context.Context, c *hub.Client) error
	HandleDisconnect(ctx context.Context, c *hub.Client) error
	HandleKickUser(ctx context.Context, c *hub.Client, targetID string) error
	HandleUpdateRoom(ctx context.Context, c *hub.Client, name string) error
	HandleDeleteRoom(ctx context.Context, c *hub.Client) error
	HandleSendMessage(ctx context.Context, c *hub.Client, content string) error
	HandleTyping(ctx context.Context, c *hub.Client, isTyping bool) error

	Rooms(ctx context.Context) []domain.Room
	Room(ctx context.Context, roomID string) (domain.Room, error)
}
