package http

import (
	"net/http"

	"github.com/wincantonlogs/firewood/internal/adapter/logger"
	"github.com/wincantonlogs/firewood/internal/interfaces"
)

// WebhookHandler receives payment-gateway notifications. The body is
// a form with the gateway payment id only; everything else is
// re-fetched from the gateway, since this endpoint is unauthenticated
// and the payload could be anything.
type WebhookHandler struct {
	payments interfaces.PaymentService
	logger   logger.Logger
}

func NewWebhookHandler(payments interfaces.PaymentService, logger logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		payments: payments,
		logger:   logger,
	}
}

func (h *WebhookHandler) HandleNotification(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	paymentID := r.PostFormValue("id")
	if paymentID == "" {
		writeError(w, http.StatusBadRequest, "missing payment id")
		return
	}

	if err := h.payments.HandleNotification(r.Context(), paymentID); err != nil {
		// Upstream failure: a non-2xx tells the gateway to retry.
		h.logger.Error("webhook_failed", "Failed to process payment notification", paymentID, nil, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusOK)
}
