package domain

import (
	"strings"
	"time"
)

// HusbandryLog is one append-only customer-service note on an order.
// Entries are never updated or deleted.
type HusbandryLog struct {
	ID        int
	OrderID   int
	Note      string
	Author    *string
	CreatedAt time.Time
}

// NewHusbandryLog validates and builds a note. The note must be
// non-empty after trimming; the author label is optional.
func NewHusbandryLog(orderID int, note string, author *string) (*HusbandryLog, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, NewValidationError("note", "note must not be empty")
	}
	if author != nil {
		trimmed := strings.TrimSpace(*author)
		if trimmed == "" {
			author = nil
		} else {
			author = &trimmed
		}
	}
	return &HusbandryLog{
		OrderID:   orderID,
		Note:      note,
		Author:    author,
		CreatedAt: time.Now(),
	}, nil
}
