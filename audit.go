package goGate

import (
	"context"
	"time"

	internalaudit "github.com/MrEthical07/goGate/internal/audit"
)

const (
	auditEventSessionInit      = "session_init"
	auditEventAuthSet          = "auth_set"
	auditEventAuthSetFailure   = "auth_set_failure"
	auditEventAuthRejected     = "auth_rejected"
	auditEventLogout           = "logout"
	auditEventAuthCleared      = "auth_cleared"
	auditEventProfileFetch     = "profile_fetch"
	auditEventReconnect        = "network_reconnect"
	auditEventTokenExpiredHint = "token_expired_hint"
)

func (g *Gate) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	requestID string,
	err error,
	metadata func() map[string]string,
) {
	if g == nil || g.audit == nil {
		return
	}

	event := internalaudit.Event{
		Timestamp:    time.Now(),
		EventType:    eventType,
		SessionEpoch: g.session.Epoch(),
		RequestID:    requestID,
		Decision:     g.Decision().String(),
		Success:      success,
	}
	if user := g.currentUser(); user != nil {
		event.UserID = user.ID
	}
	if err != nil {
		event.Error = err.Error()
	}
	if metadata != nil {
		event.Metadata = metadata()
	}
	if deviceID := deviceIDFromContext(ctx); deviceID != "" {
		if event.Metadata == nil {
			event.Metadata = map[string]string{}
		}
		event.Metadata["device_id"] = deviceID
	}
	if version := appVersionFromContext(ctx); version != "" {
		if event.Metadata == nil {
			event.Metadata = map[string]string{}
		}
		event.Metadata["app_version"] = version
	}

	g.audit.Emit(ctx, event)
}
