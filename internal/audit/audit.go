package audit

import (
	"context"

	"github.com/hallway-chat/hallway/pkg/log"
)

// Audit actions for the room broker.
const (
	ActionCreateRoom  = "room.create"
	ActionJoinRoom    = "room.join"
	ActionLeaveRoom   = "room.leave"
	ActionKickUser    = "room.kick"
	ActionUpdateRoom  = "room.update"
	ActionDeleteRoom  = "room.delete"
	ActionOwnerChange = "room.owner_change"
	ActionDisconnect  = "room.disconnect"
)

// Field constants for audit entries.
const (
	FieldAction   = "action"
	FieldTargetID = "target_id"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action, roomID, userID, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldRoomID, roomID).
		Str(log.FieldUserID, userID).
		Msg(msg)
}

// LogWithTarget emits an audit log naming a second affected user.
func LogWithTarget(ctx context.Context, action, roomID, userID, targetID, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldRoomID, roomID).
		Str(log.FieldUserID, userID).
		Str(FieldTargetID, targetID).
		Msg(msg)
}
