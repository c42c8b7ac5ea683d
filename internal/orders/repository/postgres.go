package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	odomain "github.com/Black1604/cloud1604-solution/internal/orders/domain"
)

type PostgresRepository struct{ pg *pgxpool.Pool }

func New(pg *pgxpool.Pool) *PostgresRepository { return &PostgresRepository{pg: pg} }

const orderColumns = `
	id, tenant_id, order_number, customer_name, customer_email,
	total, delivery_date, status, created_at, updated_at`

type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PostgresRepository) getByID(ctx context.Context, q queryer, id uuid.UUID) (odomain.Order, error) {
	var o odomain.Order
	var status string
	err := q.QueryRow(ctx, `
		SELECT`+orderColumns+`
		FROM sales_orders
		WHERE id = $1`, id).Scan(
		&o.ID, &o.TenantID, &o.OrderNumber, &o.CustomerName, &o.CustomerEmail,
		&o.Total, &o.DeliveryDate, &status, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return odomain.Order{}, odomain.ErrNotFound
	}
	if err != nil {
		return odomain.Order{}, err
	}
	o.Status = odomain.Status(status)

	rows, err := q.Query(ctx, `
		SELECT product_id, quantity, unit_price
		FROM order_items
		WHERE order_id = $1`, id)
	if err != nil {
		return odomain.Order{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var item odomain.LineItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return odomain.Order{}, err
		}
		o.Items = append(o.Items, item)
	}
	return o, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (odomain.Order, error) {
	return r.getByID(ctx, r.pg, id)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next odomain.Status) (odomain.Order, error) {
	tag, err := r.pg.Exec(ctx, `
		UPDATE sales_orders
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`, id, string(expected), string(next))
	if err != nil {
		return odomain.Order{}, err
	}
	if tag.RowsAffected() == 0 {
		return odomain.Order{}, odomain.ErrStaleStatus
	}
	return r.GetByID(ctx, id)
}

// Cancel flips the order to CANCELLED and restores each line item's reserved
// stock in the same transaction. The conditional update gates the restock, so
// a lost race (or a retried cancel) increments nothing.
func (r *PostgresRepository) Cancel(ctx context.Context, id uuid.UUID, expected odomain.Status) (odomain.Order, error) {
	tx, err := r.pg.Begin(ctx)
	if err != nil {
		return odomain.Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE sales_orders
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`, id, string(expected), string(odomain.StatusCancelled))
	if err != nil {
		return odomain.Order{}, err
	}
	if tag.RowsAffected() == 0 {
		return odomain.Order{}, odomain.ErrStaleStatus
	}

	if _, err := tx.Exec(ctx, `
		UPDATE products p
		SET stock_level = p.stock_level + oi.quantity
		FROM order_items oi
		WHERE oi.order_id = $1 AND oi.product_id = p.id`, id); err != nil {
		return odomain.Order{}, err
	}

	order, err := r.getByID(ctx, tx, id)
	if err != nil {
		return odomain.Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return odomain.Order{}, err
	}
	return order, nil
}

// Ship flips the order to SHIPPED and stamps the delivery date atomically.
func (r *PostgresRepository) Ship(ctx context.Context, id uuid.UUID, expected odomain.Status, deliveryDate time.Time) (odomain.Order, error) {
	tag, err := r.pg.Exec(ctx, `
		UPDATE sales_orders
		SET status = $3, delivery_date = $4, updated_at = now()
		WHERE id = $1 AND status = $2`, id, string(expected), string(odomain.StatusShipped), deliveryDate)
	if err != nil {
		return odomain.Order{}, err
	}
	if tag.RowsAffected() == 0 {
		return odomain.Order{}, odomain.ErrStaleStatus
	}
	return r.GetByID(ctx, id)
}
