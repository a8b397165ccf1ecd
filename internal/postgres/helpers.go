package postgres

import (
	"context"
	"fmt"

	"github.com/dukerupert/tally/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// tenantFromContext returns the tenant ID in ctx as a query parameter.
func tenantFromContext(ctx context.Context) (pgtype.UUID, error) {
	id := domain.TenantIDFromContext(ctx)
	if id == uuid.Nil {
		return pgtype.UUID{}, domain.ErrTenantRequired
	}
	return pgUUID(id), nil
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func fromPgUUID(id pgtype.UUID) uuid.UUID {
	if !id.Valid {
		return uuid.Nil
	}
	return uuid.UUID(id.Bytes)
}

// parseNumeric parses a NUMERIC column selected as ::text.
func parseNumeric(column string, v pgtype.Text) (decimal.Decimal, error) {
	if !v.Valid {
		return decimal.Zero, fmt.Errorf("column %s: unexpected NULL", column)
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %s: %w", column, err)
	}
	return d, nil
}

// parseNullNumeric parses a nullable NUMERIC column selected as ::text.
func parseNullNumeric(column string, v pgtype.Text) (decimal.NullDecimal, error) {
	if !v.Valid {
		return decimal.NullDecimal{}, nil
	}
	d, err := parseNumeric(column, v)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
