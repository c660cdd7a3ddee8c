package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wincantonlogs/firewood/internal/domain"
	"github.com/wincantonlogs/firewood/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `
	id, reference, created_at,
	customer_name, customer_phone, customer_email,
	address_line1, address_line2, town, county, postcode,
	preferred_day, delivery_notes,
	subtotal, delivery_fee, total,
	status, cancelled_at, cancel_reason, archived_at,
	payment_method, payment_status, payment_id, checkout_url, paid_at`

func scanOrder(row Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.Reference, &o.CreatedAt,
		&o.Customer.Name, &o.Customer.Phone, &o.Customer.Email,
		&o.Address.Line1, &o.Address.Line2, &o.Address.Town, &o.Address.County, &o.Address.Postcode,
		&o.PreferredDay, &o.DeliveryNotes,
		&o.Subtotal, &o.DeliveryFee, &o.Total,
		&o.Status, &o.CancelledAt, &o.CancelReason, &o.ArchivedAt,
		&o.PaymentMethod, &o.PaymentStatus, &o.PaymentID, &o.CheckoutURL, &o.PaidAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (reference, created_at,
		                    customer_name, customer_phone, customer_email,
		                    address_line1, address_line2, town, county, postcode,
		                    preferred_day, delivery_notes,
		                    subtotal, delivery_fee, total,
		                    status, payment_method, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		order.Reference, order.CreatedAt,
		order.Customer.Name, order.Customer.Phone, order.Customer.Email,
		order.Address.Line1, order.Address.Line2, order.Address.Town, order.Address.County, order.Address.Postcode,
		order.PreferredDay, order.DeliveryNotes,
		order.Subtotal, order.DeliveryFee, order.Total,
		order.Status, order.PaymentMethod, order.PaymentStatus,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		itemQuery := `
			INSERT INTO order_items (order_id, product_id, name, unit_price, quantity, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		err = tx.QueryRow(ctx, itemQuery,
			order.ID, order.Items[i].ProductID, order.Items[i].Name,
			order.Items[i].UnitPrice, order.Items[i].Quantity, order.Items[i].LineTotal,
		).Scan(&order.Items[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
		order.Items[i].OrderID = order.ID
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) FindByID(ctx context.Context, id int) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	items, err := r.loadItems(ctx, []int{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	return order, nil
}

func (r *orderRepository) List(ctx context.Context, filter interfaces.ListOrdersFilter) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []any{}

	if !filter.IncludeArchived {
		query += ` AND archived_at IS NULL`
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	var ids []int
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	rows.Close()

	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		order.Items = items[order.ID]
	}

	return orders, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderIDs []int) (map[int][]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, name, unit_price, quantity, line_total
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := make(map[int][]domain.OrderItem)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity, &item.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}

	return items, nil
}

// GenerateReference issues the next human-friendly sequential order
// reference, e.g. FW-20250901-004. Numbering restarts daily.
func (r *orderRepository) GenerateReference(ctx context.Context) (string, error) {
	now := time.Now().UTC()
	prefix := fmt.Sprintf("FW-%s-", now.Format("20060102"))

	query := `SELECT COUNT(*) FROM orders WHERE reference LIKE $1`

	var count int
	if err := r.db.QueryRow(ctx, query, prefix+"%").Scan(&count); err != nil {
		return "", fmt.Errorf("failed to count orders: %w", err)
	}

	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET status = $1, cancelled_at = $2, cancel_reason = $3
		WHERE id = $4
	`
	tag, err := r.db.Exec(ctx, query, order.Status, order.CancelledAt, order.CancelReason, order.ID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d: %w", order.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *orderRepository) UpdateArchived(ctx context.Context, orderID int, archivedAt *time.Time) error {
	query := `UPDATE orders SET archived_at = $1 WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, archivedAt, orderID)
	if err != nil {
		return fmt.Errorf("failed to update archived state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
	}
	return nil
}

func (r *orderRepository) UpdatePayment(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET payment_status = $1, payment_id = $2, checkout_url = $3, paid_at = $4
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query, order.PaymentStatus, order.PaymentID, order.CheckoutURL, order.PaidAt, order.ID)
	if err != nil {
		return fmt.Errorf("failed to update payment state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d: %w", order.ID, domain.ErrNotFound)
	}
	return nil
}
