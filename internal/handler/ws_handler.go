package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hallway-chat/hallway/internal/config"
	"github.com/hallway-chat/hallway/internal/domain"
	"github.com/hallway-chat/hallway/internal/hub"
	"github.com/hallway-chat/hallway/internal/service"
	"github.com/hallway-chat/hallway/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// roomIDPattern is the accepted room identifier alphabet.
var roomIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

type WSHandler struct {
	hub     *hub.Hub
	service service.RoomService
	wsCfg   config.WebSocketConfig
}

func NewWSHandler(h *hub.Hub, svc service.RoomService, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:     h,
		service: svc,
		wsCfg:   wsCfg,
	}
}

func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l := log.L()
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsCfg)

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleEvent, h.handleDisconnect)
}

// handleDisconnect runs on every read-pump exit, explicit close or abrupt
// drop alike, so a dead connection always releases its room binding.
func (h *WSHandler) handleDisconnect(client *hub.Client) {
	ctx := h.clientCtx(client)
	if err := h.service.HandleDisconnect(ctx, client); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("disconnect cleanup failed")
	}
}

func (h *WSHandler) handleEvent(client *hub.Client, raw []byte) {
	var base domain.EventEnvelope
	if err := json.Unmarshal(raw, &base); err != nil {
		client.SendEvent(domain.NewErrorEvent(domain.CodeBadRequest, "Invalid event format"))
		return
	}

	ctx := h.clientCtx(client)
	l := log.Ctx(ctx).With().Str(log.FieldEvent, base.Event).Logger()

	switch base.Event {
	case domain.EventCreateRoom:
		var ev domain.CreateRoomEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			client.SendEvent(domain.NewErrorEvent(domain.CodeBadRequest, "Invalid create-room event"))
			return
		}
		if !validRoomID(ev.RoomID) || !domain.ValidUsername(ev.Username) {
			client.SendEvent(domain.NewErrorEvent(domain.CodeValidation, "Room id must be alphanumeric/dashes and username 1-50 characters"))
			return
		}
		if err := h.service.HandleCreateRoom(ctx, client, ev.RoomID, ev.Username); err != nil {
			l.Info().Err(err).Str(log.FieldRoomID, ev.RoomID).Msg("create-room rejected")
		}

	case domain.EventJoinRoom:
		var ev domain.JoinRoomEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			client.SendEvent(domain.NewErrorEvent(domain.CodeBadRequest, "Invalid join-room event"))
			return
		}
		if !validRoomID(ev.RoomID) || !domain.ValidUsername(ev.Username) {
			client.SendEvent(domain.NewErrorEvent(domain.CodeValidation, "Room id must be alphanumeric/dashes and username 1-50 characters"))
			return
		}
		if err := h.service.HandleJoinRoom(ctx, client, ev.RoomID, ev.Username); err != nil {
			l.Info().Err(err).Str(log.FieldRoomID, ev.RoomID).Msg("join-room rejected")
		}

	case domain.EventLeaveRoom:
		if err := h.service.HandleLeaveRoom(ctx, client); err != nil {
			l.Warn().Err(err).Msg("leave-room failed")
		}

	case domain.EventKickUser:
		var ev domain.KickUserEvent
		if err := json.Unmarshal(raw, &ev); err != nil || ev.UserID == "" {
			client.SendEvent(domain.NewErrorEvent(domain.CodeBadRequest, "Invalid kick-user event"))
			return
		}
		if err := h.service.HandleKickUser(ctx, client, ev.UserID); err != nil {
			l.Info().Err(err).Str(log.FieldUserID, ev.UserID).Msg("kick-user rejected")
		}

	case domain.EventUpdateRoom:
		var ev domain.UpdateRoomEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			client.SendEvent(domain.NewErrorEvent(domain.CodeBadRequest, "Invalid update-room event"))
			return
		}
		name := strings.TrimSpace(ev.Name)
		if name == "" {
			client.SendEvent(domain.NewErrorEvent(domain.CodeValidation, "Room name must not be empty"))
			return
		}
		if err := h.service.HandleUpdateRoom(ctx, client, name); err != nil {
			l.Info().Err(err).Msg("update-room rejected")
		}

	case domain.EventDeleteRoom:
		if err := h.service.HandleDeleteRoom(ctx, client); err != nil {
			l.Info().Err(err).Msg("delete-room rejected")
		}

	case domain.EventUserTyping:
		var ev domain.TypingEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			client.SendEvent(domain.NewErrorEvent(domain.CodeBadRequest, "Invalid user-typing event"))
			return
		}
		if err := h.service.HandleTyping(ctx, client, ev.IsTyping); err != nil {
			l.Debug().Err(err).Msg("user-typing dropped")
		}

	case domain.EventSendMessage:
		var ev domain.SendMessageEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			client.SendEvent(domain.NewErrorEvent(domain.CodeBadRequest, "Invalid send-message event"))
			return
		}
		if err := h.service.HandleSendMessage(ctx, client, ev.Content); err != nil {
			l.Info().Err(err).Msg("send-message rejected")
		}

	default:
		l.Debug().Msg("unknown event")
		client.SendEvent(domain.NewErrorEvent(domain.CodeBadRequest, "Unknown event"))
	}
}

func (h *WSHandler) clientCtx(client *hub.Client) context.Context {
	l := log.L().With().Str(log.FieldClientID, client.ID).Logger()
	return log.WithLogger(context.Background(), l)
}

func validRoomID(roomID string) bool {
	return roomIDPattern.MatchString(roomID)
}

// RegisterRoutes mounts the websocket endpoint.
func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", func(c *gin.Context) {
		h.HandleWebSocket(c.Writer, c.Request)
	})
}
