package amqp

import (
	"context"
	"encoding/json"

	"github.com/wincantonlogs/firewood/internal/adapter/logger"
	"github.com/wincantonlogs/firewood/internal/adapter/mailer"
	"github.com/wincantonlogs/firewood/internal/interfaces"
)

// NotificationHandler turns notification intents into outbound email.
// Every failure here is logged and swallowed: notifications are a side
// channel, and the write that triggered them already succeeded.
type NotificationHandler struct {
	mailer       interfaces.Mailer
	staffAddress string
	logger       logger.Logger
}

func NewNotificationHandler(m interfaces.Mailer, staffAddress string, logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		mailer:       m,
		staffAddress: staffAddress,
		logger:       logger,
	}
}

func (h *NotificationHandler) HandleNotification(ctx context.Context, body []byte) error {
	var intent interfaces.NotificationIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		h.logger.Error("intent_parse_failed", "Failed to parse notification intent", "", nil, err)
		return nil
	}

	h.logger.Debug("intent_received", "Notification intent received", intent.IntentID, map[string]interface{}{
		"kind":      intent.Kind,
		"reference": intent.Reference,
	})

	switch intent.Kind {
	case interfaces.NotificationOrderCreated:
		h.handleOrderCreated(ctx, intent)
	case interfaces.NotificationStatusChanged:
		h.handleStatusChanged(ctx, intent)
	default:
		h.logger.Error("intent_unknown_kind", "Unknown notification intent kind", intent.IntentID, map[string]interface{}{
			"kind": intent.Kind,
		}, nil)
	}

	return nil
}

func (h *NotificationHandler) handleOrderCreated(ctx context.Context, intent interfaces.NotificationIntent) {
	if h.staffAddress != "" {
		email, err := mailer.RenderStaffNewOrder(intent, h.staffAddress)
		if err != nil {
			h.logger.Error("email_render_failed", "Failed to render staff email", intent.IntentID, nil, err)
		} else if err := h.mailer.Send(ctx, email); err != nil {
			h.logger.Error("email_send_failed", "Failed to send staff email", intent.IntentID, map[string]interface{}{
				"reference": intent.Reference,
			}, err)
		}
	}

	if intent.CustomerEmail == nil {
		return
	}

	email, err := mailer.RenderOrderConfirmation(intent, *intent.CustomerEmail)
	if err != nil {
		h.logger.Error("email_render_failed", "Failed to render confirmation email", intent.IntentID, nil, err)
		return
	}
	if err := h.mailer.Send(ctx, email); err != nil {
		h.logger.Error("email_send_failed", "Failed to send confirmation email", intent.IntentID, map[string]interface{}{
			"reference": intent.Reference,
		}, err)
	}
}

func (h *NotificationHandler) handleStatusChanged(ctx context.Context, intent interfaces.NotificationIntent) {
	if intent.CustomerEmail == nil {
		return
	}

	email, err := mailer.RenderStatusChange(intent, *intent.CustomerEmail)
	if err != nil {
		h.logger.Error("email_render_failed", "Failed to render status email", intent.IntentID, nil, err)
		return
	}
	if err := h.mailer.Send(ctx, email); err != nil {
		h.logger.Error("email_send_failed", "Failed to send status email", intent.IntentID, map[string]interface{}{
			"reference":  intent.Reference,
			"new_status": intent.NewStatus,
		}, err)
	}
}
