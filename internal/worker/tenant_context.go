package worker

import (
	"context"

	"github.com/dukerupert/tally/internal/domain"
	"github.com/google/uuid"
)

// withTenantContext injects the record's tenant into ctx.
//
// The sweeper lists invoices across tenants, while the repository and service
// read the tenant from context. Every per-invoice call must go through the
// returned context.
func withTenantContext(ctx context.Context, rec *domain.InvoiceRecord) (context.Context, error) {
	return withTenantContextFromID(ctx, rec.TenantID)
}

// withTenantContextFromID creates tenant context from a raw UUID.
func withTenantContextFromID(ctx context.Context, tenantID uuid.UUID) (context.Context, error) {
	if tenantID == uuid.Nil {
		return ctx, domain.ErrTenantRequired
	}
	return domain.NewContextWithTenant(ctx, &domain.Tenant{ID: tenantID}), nil
}
