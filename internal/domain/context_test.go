package domain

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestTenantContext(t *testing.T) {
	t.Run("HasTenant is false when no tenant", func(t *testing.T) {
		if HasTenant(context.Background()) {
			t.Error("HasTenant should be false")
		}
	})

	t.Run("TenantIDFromContext returns ID when tenant set", func(t *testing.T) {
		expected := &Tenant{ID: uuid.New()}
		ctx := NewContextWithTenant(context.Background(), expected)

		if id := TenantIDFromContext(ctx); id != expected.ID {
			t.Errorf("expected %v, got %v", expected.ID, id)
		}
		if !HasTenant(ctx) {
			t.Error("HasTenant should be true")
		}
	})

	t.Run("TenantIDFromContext returns uuid.Nil when no tenant", func(t *testing.T) {
		if id := TenantIDFromContext(context.Background()); id != uuid.Nil {
			t.Errorf("expected uuid.Nil, got %v", id)
		}
	})
}

func TestRequestIDContext(t *testing.T) {
	if id := RequestIDFromContext(context.Background()); id != "" {
		t.Errorf("expected empty request ID, got %q", id)
	}

	ctx := NewContextWithRequestID(context.Background(), "req-123")
	ctx = NewContextWithTenant(ctx, &Tenant{ID: uuid.New()})

	if id := RequestIDFromContext(ctx); id != "req-123" {
		t.Errorf("expected %q, got %q", "req-123", id)
	}
}
