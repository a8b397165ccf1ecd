package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/tally/internal/domain"
)

// TenantHeader carries the tenant whose invoices a request works on.
const TenantHeader = "X-Tenant-ID"

// TenantConfig holds configuration for tenant resolution middleware.
type TenantConfig struct {
	// Header overrides TenantHeader.
	Header string

	// Default is used when the request carries no tenant header.
	// uuid.Nil leaves such requests without a tenant.
	Default uuid.UUID

	// Logger is the structured logger for middleware operations.
	// If nil, uses slog.Default().
	Logger *slog.Logger
}

// ResolveTenant creates middleware that attaches the request's tenant to the
// context.
//
// Resolution order:
//  1. The tenant header, which must be a UUID (400 otherwise)
//  2. cfg.Default when it is not uuid.Nil
//  3. No tenant; stateless endpoints still work and RequireTenant rejects
//     the rest
func ResolveTenant(cfg TenantConfig) func(http.Handler) http.Handler {
	header := cfg.Header
	if header == "" {
		header = TenantHeader
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := cfg.Default

			if raw := strings.TrimSpace(r.Header.Get(header)); raw != "" {
				parsed, err := uuid.Parse(raw)
				if err != nil || parsed == uuid.Nil {
					logger.Debug("rejected tenant header",
						slog.String("header", header),
						slog.String("value", raw))
					respondBadRequest(w, r, "Invalid "+header+" header")
					return
				}
				id = parsed
			}

			if id == uuid.Nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := domain.NewContextWithTenant(r.Context(), &domain.Tenant{ID: id})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTenant rejects requests that reached it without a tenant.
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domain.HasTenant(r.Context()) {
			respondBadRequest(w, r, "Missing "+TenantHeader+" header")
			return
		}
		next.ServeHTTP(w, r)
	})
}
