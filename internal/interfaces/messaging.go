package interfaces

import (
	"context"

	"github.com/wincantonlogs/firewood/internal/domain"
)

type NotificationKind string

const (
	NotificationOrderCreated  NotificationKind = "order_created"
	NotificationStatusChanged NotificationKind = "status_changed"
)

// NotificationItem is the slice of an order line an email needs.
type NotificationItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	LineTotal int    `json:"line_total"`
}

// NotificationIntent is emitted after a successful database write and
// carries everything the notification worker needs to render an email
// without reading the database again.
type NotificationIntent struct {
	IntentID      string             `json:"intent_id"`
	Kind          NotificationKind   `json:"kind"`
	OrderID       int                `json:"order_id"`
	Reference     string             `json:"reference"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail *string            `json:"customer_email"`
	Postcode      string             `json:"postcode"`
	Items         []NotificationItem `json:"items,omitempty"`
	Total         int                `json:"total"`
	OldStatus     domain.Status      `json:"old_status,omitempty"`
	NewStatus     domain.Status      `json:"new_status,omitempty"`
}

type NotificationPublisher interface {
	PublishNotification(ctx context.Context, intent NotificationIntent) error
}

type NotificationHandlerFunc func(ctx context.Context, body []byte) error

type NotificationConsumer interface {
	ConsumeNotifications(ctx context.Context, handler NotificationHandlerFunc) error
}
