package postgres

import (
	"context"
	"testing"

	"github.com/dukerupert/tally/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumeric(t *testing.T) {
	d, err := parseNumeric("unit_price", pgtype.Text{String: "1180.50", Valid: true})
	require.NoError(t, err)
	assert.Equal(t, "1180.5", d.String())

	_, err = parseNumeric("unit_price", pgtype.Text{})
	assert.ErrorContains(t, err, "unit_price")

	_, err = parseNumeric("unit_price", pgtype.Text{String: "NaN?", Valid: true})
	assert.Error(t, err)
}

func TestParseNullNumeric(t *testing.T) {
	nd, err := parseNullNumeric("grand_total", pgtype.Text{})
	require.NoError(t, err)
	assert.False(t, nd.Valid)

	nd, err = parseNullNumeric("grand_total", pgtype.Text{String: "0.00", Valid: true})
	require.NoError(t, err)
	assert.True(t, nd.Valid)
	assert.True(t, nd.Decimal.IsZero())
}

func TestTenantFromContext(t *testing.T) {
	_, err := tenantFromContext(context.Background())
	assert.ErrorIs(t, err, domain.ErrTenantRequired)

	id := uuid.New()
	ctx := domain.NewContextWithTenant(context.Background(), &domain.Tenant{ID: id})
	got, err := tenantFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, fromPgUUID(got))
}
