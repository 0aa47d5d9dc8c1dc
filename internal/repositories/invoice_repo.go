package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/common"
	"backoffice/internal/models"

	"github.com/jackc/pgx/v5"
)

type InvoiceRepository interface {
	Create(ctx context.Context, customerName string, items []models.InvoiceItemInput) (int64, error)
	Replace(ctx context.Context, id int64, customerName *string, items *[]models.InvoiceItemInput) error
	GetByID(ctx context.Context, id int64) (*models.Invoice, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*models.Invoice, error)
	Summary(ctx context.Context, today time.Time) (*models.InvoiceSummary, error)
}

type invoiceRepo struct {
	db Database
}

func NewInvoiceRepo(db Database) InvoiceRepository {
	return &invoiceRepo{db: db}
}

const insertInvoiceItemQuery = `
	INSERT INTO invoice_items (invoice_id, service_id, quantity, price, discount, created_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
`

// insertItems writes items in order; a missing service is reported against its index.
func insertItems(ctx context.Context, tx pgx.Tx, invoiceID int64, items []models.InvoiceItemInput) error {
	for i, item := range items {
		_, err := tx.Exec(ctx, insertInvoiceItemQuery, invoiceID, item.ServiceID, item.Quantity, item.Price, item.Discount)
		if err != nil {
			if isForeignKeyViolation(err) {
				return common.NewValidationError(fmt.Sprintf("items[%d].service", i), "Invalid pk - object does not exist.")
			}
			return fmt.Errorf("insert item %d: %w", i, err)
		}
	}
	return nil
}

// Create inserts the invoice header and all of its items in one transaction.
func (r *invoiceRepo) Create(ctx context.Context, customerName string, items []models.InvoiceItemInput) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	var id int64
	err = tx.QueryRow(ctx, `INSERT INTO invoices (customer_name, created_at) VALUES ($1, NOW()) RETURNING id`, customerName).Scan(&id)
	if err != nil {
		_ = tx.Rollback(ctx)
		return 0, fmt.Errorf("insert invoice: %w", err)
	}

	if err = insertItems(ctx, tx, id, items); err != nil {
		_ = tx.Rollback(ctx)
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit invoice: %w", err)
	}
	return id, nil
}

// Replace updates the header and, when items is non-nil, swaps the whole item set.
// Any failure rolls back to the previous state.
func (r *invoiceRepo) Replace(ctx context.Context, id int64, customerName *string, items *[]models.InvoiceItemInput) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	tag, err := tx.Exec(ctx, `UPDATE invoices SET customer_name = COALESCE($1, customer_name) WHERE id = $2`, customerName, id)
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		_ = tx.Rollback(ctx)
		return common.NotFound("invoice")
	}

	if items != nil {
		if _, err = tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, id); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("clear items: %w", err)
		}
		if err = insertItems(ctx, tx, id, *items); err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id int64) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	err := r.db.QueryRow(ctx, `SELECT id, customer_name, created_at FROM invoices WHERE id = $1`, id).
		Scan(&invoice.ID, &invoice.CustomerName, &invoice.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("invoice")
	}
	if err != nil {
		return nil, err
	}

	byInvoice, err := r.itemsFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	invoice.Items = byInvoice[id]
	return invoice, nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("invoice")
	}
	return nil
}

// List returns invoices newest first with their items loaded in a single extra query.
func (r *invoiceRepo) List(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	query := `
		SELECT id, customer_name, created_at
		FROM invoices
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limitArg(limit), offset)
	if err != nil {
		return nil, err
	}

	invoices := []*models.Invoice{}
	ids := []int64{}
	for rows.Next() {
		invoice := &models.Invoice{}
		if err := rows.Scan(&invoice.ID, &invoice.CustomerName, &invoice.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		invoices = append(invoices, invoice)
		ids = append(ids, invoice.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return invoices, nil
	}

	byInvoice, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, invoice := range invoices {
		invoice.Items = byInvoice[invoice.ID]
	}
	return invoices, nil
}

func (r *invoiceRepo) itemsFor(ctx context.Context, invoiceIDs []int64) (map[int64][]models.InvoiceItem, error) {
	query := `
		SELECT ii.id, ii.invoice_id, ii.service_id, s.name, ii.quantity, ii.price, ii.discount, ii.created_at
		FROM invoice_items ii
		JOIN services s ON s.id = ii.service_id
		WHERE ii.invoice_id = ANY($1)
		ORDER BY ii.id
	`
	rows, err := r.db.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]models.InvoiceItem, len(invoiceIDs))
	for rows.Next() {
		var item models.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.ServiceID, &item.ServiceName, &item.Quantity,
			&item.Price, &item.Discount, &item.CreatedAt); err != nil {
			return nil, err
		}
		out[item.InvoiceID] = append(out[item.InvoiceID], item)
	}
	return out, rows.Err()
}

// Summary aggregates sales for the dashboard; today is compared by calendar date.
func (r *invoiceRepo) Summary(ctx context.Context, today time.Time) (*models.InvoiceSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(ii.quantity * ii.price) FILTER (WHERE i.created_at::date = $1::date), 0),
			(SELECT COUNT(*) FROM invoices),
			COALESCE(SUM(ii.quantity * ii.price), 0)
		FROM invoice_items ii
		JOIN invoices i ON i.id = ii.invoice_id
	`
	summary := &models.InvoiceSummary{}
	err := r.db.QueryRow(ctx, query, today.Format(common.DateLayout)).
		Scan(&summary.TodayIncome, &summary.InvoiceCount, &summary.TotalSales)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
