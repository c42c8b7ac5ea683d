package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	invdomain "github.com/Black1604/cloud1604-solution/internal/invoices/domain"
)

type PostgresRepository struct{ pg *pgxpool.Pool }

func New(pg *pgxpool.Pool) *PostgresRepository { return &PostgresRepository{pg: pg} }

const invoiceColumns = `
	i.id, i.tenant_id, i.invoice_number, i.sales_order_id,
	so.customer_name, so.customer_email,
	i.total, i.due_date, i.status, i.created_at, i.updated_at`

func scanInvoice(row pgx.Row) (invdomain.Invoice, error) {
	var inv invdomain.Invoice
	var status string
	err := row.Scan(
		&inv.ID, &inv.TenantID, &inv.InvoiceNumber, &inv.SalesOrderID,
		&inv.CustomerName, &inv.CustomerEmail,
		&inv.Total, &inv.DueDate, &status, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return invdomain.Invoice{}, err
	}
	inv.Status = invdomain.Status(status)
	return inv, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (invdomain.Invoice, error) {
	row := r.pg.QueryRow(ctx, `
		SELECT`+invoiceColumns+`
		FROM invoices i
		JOIN sales_orders so ON so.id = i.sales_order_id
		WHERE i.id = $1`, id)
	inv, err := scanInvoice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return invdomain.Invoice{}, invdomain.ErrNotFound
	}
	return inv, err
}

// UpdateStatus performs the optimistic conditional write: the row only changes
// when it still carries the expected status. A miss after a successful GetByID
// means a concurrent transition won the race.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next invdomain.Status) (invdomain.Invoice, error) {
	row := r.pg.QueryRow(ctx, `
		UPDATE invoices i
		SET status = $3, updated_at = now()
		FROM sales_orders so
		WHERE i.id = $1 AND i.status = $2 AND so.id = i.sales_order_id
		RETURNING`+invoiceColumns, id, string(expected), string(next))
	inv, err := scanInvoice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return invdomain.Invoice{}, invdomain.ErrStaleStatus
	}
	return inv, err
}
