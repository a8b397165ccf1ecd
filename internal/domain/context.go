// Package domain provides the core invoice types, application errors and
// context helpers shared by the tally service.
//
// Context helpers centralize request-scoped data access, making tenant isolation
// bugs harder to write and providing consistent patterns throughout the codebase.
package domain

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// tenantContextKey stores tenant information in context.
	tenantContextKey contextKey = iota

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// Tenant represents the business whose invoices are being checked.
// This is a minimal struct for context storage.
type Tenant struct {
	ID uuid.UUID
}

// --- Tenant Context Helpers ---

// NewContextWithTenant returns a new context with the tenant attached.
func NewContextWithTenant(ctx context.Context, tenant *Tenant) context.Context {
	return context.WithValue(ctx, tenantContextKey, tenant)
}

// tenantFromContext retrieves the tenant from context.
// Returns nil if no tenant is present.
func tenantFromContext(ctx context.Context) *Tenant {
	tenant, _ := ctx.Value(tenantContextKey).(*Tenant)
	return tenant
}

// TenantIDFromContext retrieves the tenant ID from context.
// Returns uuid.Nil if no tenant is present.
func TenantIDFromContext(ctx context.Context) uuid.UUID {
	if tenant := tenantFromContext(ctx); tenant != nil {
		return tenant.ID
	}
	return uuid.Nil
}

// HasTenant returns true if there is a tenant in context.
func HasTenant(ctx context.Context) bool {
	return tenantFromContext(ctx) != nil
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
