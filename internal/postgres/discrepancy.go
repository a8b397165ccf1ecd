package postgres

import (
	"context"
	"time"

	"github.com/dukerupert/tally/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const deleteOpenDiscrepancies = `
DELETE FROM invoice_discrepancies
WHERE tenant_id = $1 AND invoice_id = $2 AND resolved_at IS NULL`

const insertDiscrepancy = `
INSERT INTO invoice_discrepancies (id, tenant_id, invoice_id, field, expected, actual, detected_at)
VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7)`

const resolveDiscrepancies = `
UPDATE invoice_discrepancies
SET resolved_at = $3
WHERE tenant_id = $1 AND invoice_id = $2 AND resolved_at IS NULL`

const listOpenDiscrepancies = `
SELECT id, tenant_id, invoice_id, field, expected::text, actual::text, detected_at
FROM invoice_discrepancies
WHERE tenant_id = $1 AND invoice_id = $2 AND resolved_at IS NULL
ORDER BY detected_at, field`

// RecordDiscrepancies replaces the open discrepancies of an invoice in one
// transaction.
func (r *InvoiceRepository) RecordDiscrepancies(ctx context.Context, invoiceID uuid.UUID, ds []domain.Discrepancy) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteOpenDiscrepancies, tenantID, pgUUID(invoiceID)); err != nil {
			return err
		}
		for _, d := range ds {
			id := d.ID
			if id == uuid.Nil {
				id = uuid.New()
			}
			if _, err := tx.Exec(ctx, insertDiscrepancy,
				pgUUID(id), tenantID, pgUUID(invoiceID), d.Field,
				d.Expected.String(), d.Actual.String(), d.DetectedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Internal(err, "discrepancy.record", "failed to record discrepancies")
	}
	return nil
}

// ResolveDiscrepancies closes every open discrepancy of an invoice.
func (r *InvoiceRepository) ResolveDiscrepancies(ctx context.Context, invoiceID uuid.UUID, at time.Time) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, resolveDiscrepancies, tenantID, pgUUID(invoiceID), at); err != nil {
		return domain.Internal(err, "discrepancy.resolve", "failed to resolve discrepancies")
	}
	return nil
}

// ListOpenDiscrepancies returns the unresolved discrepancies of an invoice.
func (r *InvoiceRepository) ListOpenDiscrepancies(ctx context.Context, invoiceID uuid.UUID) ([]domain.Discrepancy, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, listOpenDiscrepancies, tenantID, pgUUID(invoiceID))
	if err != nil {
		return nil, domain.Internal(err, "discrepancy.list", "failed to list discrepancies")
	}
	defer rows.Close()

	var out []domain.Discrepancy
	for rows.Next() {
		var (
			d                   domain.Discrepancy
			id, tenant, invoice pgtype.UUID
			expected, actual    pgtype.Text
		)
		if err := rows.Scan(&id, &tenant, &invoice, &d.Field, &expected, &actual, &d.DetectedAt); err != nil {
			return nil, domain.Internal(err, "discrepancy.list", "failed to scan discrepancy")
		}
		d.ID, d.TenantID, d.InvoiceID = fromPgUUID(id), fromPgUUID(tenant), fromPgUUID(invoice)
		if d.Expected, err = parseNumeric("expected", expected); err != nil {
			return nil, domain.Internal(err, "discrepancy.list", "failed to parse discrepancy")
		}
		if d.Actual, err = parseNumeric("actual", actual); err != nil {
			return nil, domain.Internal(err, "discrepancy.list", "failed to parse discrepancy")
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "discrepancy.list", "failed to list discrepancies")
	}
	return out, nil
}
