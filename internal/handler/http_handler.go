package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/hallway-chat/hallway/internal/service"
	"github.com/hallway-chat/hallway/pkg/log"
	"github.com/hallway-chat/hallway/pkg/response"
)

// HTTPHandler serves the read-only lobby API: room snapshots for clients
// deciding what to join. All mutation happens over the websocket protocol.
type HTTPHandler struct {
	roomService service.RoomService
}

func NewHTTPHandler(roomService service.RoomService) *HTTPHandler {
	return &HTTPHandler{
		roomService: roomService,
	}
}

// RegisterRoutes registers all routes.
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", h.ListRooms)
			rooms.GET("/:id", h.GetRoom)
		}
	}
}

// ListRooms lists current room snapshots.
func (h *HTTPHandler) ListRooms(c *gin.Context) {
	ctx := c.Request.Context()

	rooms := h.roomService.Rooms(ctx)
	response.Success(c, rooms)
}

// GetRoom retrieves one room snapshot by ID.
func (h *HTTPHandler) GetRoom(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	roomID := c.Param("id")

	room, err := h.roomService.Room(ctx, roomID)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			response.NotFound(c, "room not found")
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to get room")
		response.InternalError(c, "failed to get room")
		return
	}

	response.Success(c, room)
}
