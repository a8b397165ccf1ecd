package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/tally/internal/domain"
	"github.com/dukerupert/tally/internal/gst"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// InvoiceRepository implements domain.InvoiceRepository using PostgreSQL.
type InvoiceRepository struct {
	db DBTX
}

// Compile-time check that InvoiceRepository implements domain.InvoiceRepository.
var _ domain.InvoiceRepository = (*InvoiceRepository)(nil)

// NewInvoiceRepository creates a new PostgreSQL-backed invoice repository.
func NewInvoiceRepository(db DBTX) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// NUMERIC columns are selected as text so they never pass through float64.
const invoiceColumns = `
	id, tenant_id, invoice_number, seller_state, buyer_state,
	COALESCE(seller_gstin, ''), COALESCE(buyer_gstin, ''), is_inter_state,
	subtotal::text, total_discount::text, total_taxable_amount::text,
	total_cgst::text, total_sgst::text, total_igst::text, grand_total::text,
	issued_at, updated_at`

const getInvoice = `SELECT ` + invoiceColumns + `
FROM invoices
WHERE tenant_id = $1 AND id = $2`

const listInvoicesUpdatedSince = `SELECT ` + invoiceColumns + `
FROM invoices
WHERE (updated_at, id) > ($1, $2)
ORDER BY updated_at, id
LIMIT $3`

const listInvoiceItems = `
SELECT invoice_id, name, COALESCE(variation_name, ''), COALESCE(hsn_code, ''),
	unit_price::text, quantity, discount_percent::text,
	cgst_rate::text, sgst_rate::text, igst_rate::text
FROM invoice_items
WHERE invoice_id = ANY($1::uuid[])
ORDER BY invoice_id, position`

// GetInvoice returns the tenant's invoice with its items in line order.
func (r *InvoiceRepository) GetInvoice(ctx context.Context, id uuid.UUID) (*domain.InvoiceRecord, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := scanInvoice(r.db.QueryRow(ctx, getInvoice, tenantID, pgUUID(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, domain.Internal(err, "invoice.get", "failed to load invoice")
	}

	records := []domain.InvoiceRecord{*rec}
	if err := r.attachItems(ctx, records); err != nil {
		return nil, domain.Internal(err, "invoice.get", "failed to load invoice items")
	}
	return &records[0], nil
}

// ListInvoicesUpdatedSince returns invoices of every tenant ordered after the
// (since, afterID) cursor, oldest first. It is used by the background sweeper
// only.
func (r *InvoiceRepository) ListInvoicesUpdatedSince(ctx context.Context, since time.Time, afterID uuid.UUID, limit int32) ([]domain.InvoiceRecord, error) {
	rows, err := r.db.Query(ctx, listInvoicesUpdatedSince, since, pgUUID(afterID), limit)
	if err != nil {
		return nil, domain.Internal(err, "invoice.list_updated", "failed to list invoices")
	}
	defer rows.Close()

	var records []domain.InvoiceRecord
	for rows.Next() {
		rec, err := scanInvoice(rows)
		if err != nil {
			return nil, domain.Internal(err, "invoice.list_updated", "failed to scan invoice")
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "invoice.list_updated", "failed to list invoices")
	}

	if err := r.attachItems(ctx, records); err != nil {
		return nil, domain.Internal(err, "invoice.list_updated", "failed to load invoice items")
	}
	return records, nil
}

// attachItems loads the items of every record with a single query.
func (r *InvoiceRepository) attachItems(ctx context.Context, records []domain.InvoiceRecord) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]pgtype.UUID, len(records))
	byID := make(map[uuid.UUID]int, len(records))
	for i, rec := range records {
		ids[i] = pgUUID(rec.ID)
		byID[rec.ID] = i
	}

	rows, err := r.db.Query(ctx, listInvoiceItems, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			invoiceID           pgtype.UUID
			item                gst.LineItem
			unitPrice, discount pgtype.Text
			cgst, sgst, igst    pgtype.Text
		)
		if err := rows.Scan(&invoiceID, &item.Name, &item.VariationName, &item.HSNCode,
			&unitPrice, &item.Quantity, &discount, &cgst, &sgst, &igst); err != nil {
			return err
		}
		if item.UnitPrice, err = parseNumeric("unit_price", unitPrice); err != nil {
			return err
		}
		if item.DiscountPercent, err = parseNumeric("discount_percent", discount); err != nil {
			return err
		}
		if item.CGSTRate, err = parseNumeric("cgst_rate", cgst); err != nil {
			return err
		}
		if item.SGSTRate, err = parseNumeric("sgst_rate", sgst); err != nil {
			return err
		}
		if item.IGSTRate, err = parseNumeric("igst_rate", igst); err != nil {
			return err
		}

		i, ok := byID[fromPgUUID(invoiceID)]
		if !ok {
			return fmt.Errorf("item for unexpected invoice %s", fromPgUUID(invoiceID))
		}
		records[i].Items = append(records[i].Items, item)
	}
	return rows.Err()
}

func scanInvoice(row pgx.Row) (*domain.InvoiceRecord, error) {
	var (
		rec                          domain.InvoiceRecord
		id, tenantID                 pgtype.UUID
		subtotal, discount, taxable  pgtype.Text
		cgst, sgst, igst, grandTotal pgtype.Text
	)
	err := row.Scan(&id, &tenantID, &rec.InvoiceNumber, &rec.SellerState, &rec.BuyerState,
		&rec.SellerGSTIN, &rec.BuyerGSTIN, &rec.IsInterState,
		&subtotal, &discount, &taxable, &cgst, &sgst, &igst, &grandTotal,
		&rec.IssuedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.ID = fromPgUUID(id)
	rec.TenantID = fromPgUUID(tenantID)

	s := &rec.Supplied
	if s.Subtotal, err = parseNullNumeric("subtotal", subtotal); err != nil {
		return nil, err
	}
	if s.TotalDiscount, err = parseNullNumeric("total_discount", discount); err != nil {
		return nil, err
	}
	if s.TotalTaxableAmount, err = parseNullNumeric("total_taxable_amount", taxable); err != nil {
		return nil, err
	}
	if s.TotalCGST, err = parseNullNumeric("total_cgst", cgst); err != nil {
		return nil, err
	}
	if s.TotalSGST, err = parseNullNumeric("total_sgst", sgst); err != nil {
		return nil, err
	}
	if s.TotalIGST, err = parseNullNumeric("total_igst", igst); err != nil {
		return nil, err
	}
	if s.GrandTotal, err = parseNullNumeric("grand_total", grandTotal); err != nil {
		return nil, err
	}
	return &rec, nil
}
