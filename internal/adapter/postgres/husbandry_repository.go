package postgres

import (
	"context"
	"fmt"

	"github.com/wincantonlogs/firewood/internal/domain"
	"github.com/wincantonlogs/firewood/internal/interfaces"
)

type husbandryRepository struct {
	db DB
}

func NewHusbandryRepository(db DB) interfaces.HusbandryRepository {
	return &husbandryRepository{db: db}
}

func (r *husbandryRepository) Create(ctx context.Context, entry *domain.HusbandryLog) error {
	query := `
		INSERT INTO husbandry_logs (order_id, note, author, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, entry.OrderID, entry.Note, entry.Author, entry.CreatedAt).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to insert husbandry log: %w", err)
	}
	return nil
}

func (r *husbandryRepository) ListByOrder(ctx context.Context, orderID int) ([]*domain.HusbandryLog, error) {
	query := `
		SELECT id, order_id, note, author, created_at
		FROM husbandry_logs
		WHERE order_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list husbandry logs: %w", err)
	}
	defer rows.Close()

	var entries []*domain.HusbandryLog
	for rows.Next() {
		var entry domain.HusbandryLog
		if err := rows.Scan(&entry.ID, &entry.OrderID, &entry.Note, &entry.Author, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan husbandry log: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}
