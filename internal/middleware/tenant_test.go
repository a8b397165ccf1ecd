package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/tally/internal/domain"
)

// =============================================================================
// HELPERS
// =============================================================================

var (
	defaultTenant = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	headerTenant  = uuid.MustParse("5b1f6a0e-7c1d-4f3e-9a55-2f0d3c4b8e71")
)

// tenantCapture records the tenant the downstream handler saw.
type tenantCapture struct {
	called bool
	tenant uuid.UUID
}

func (c *tenantCapture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.called = true
		c.tenant = domain.TenantIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

// =============================================================================
// ResolveTenant
// =============================================================================

func TestResolveTenant(t *testing.T) {
	tests := []struct {
		name       string
		cfg        TenantConfig
		header     string
		wantStatus int
		wantCalled bool
		wantTenant uuid.UUID
	}{
		{
			name:       "header wins over default",
			cfg:        TenantConfig{Default: defaultTenant},
			header:     headerTenant.String(),
			wantStatus: http.StatusOK,
			wantCalled: true,
			wantTenant: headerTenant,
		},
		{
			name:       "default used without header",
			cfg:        TenantConfig{Default: defaultTenant},
			wantStatus: http.StatusOK,
			wantCalled: true,
			wantTenant: defaultTenant,
		},
		{
			name:       "no header and no default leaves tenant unset",
			cfg:        TenantConfig{},
			wantStatus: http.StatusOK,
			wantCalled: true,
			wantTenant: uuid.Nil,
		},
		{
			name:       "whitespace around header is ignored",
			cfg:        TenantConfig{},
			header:     "  " + headerTenant.String() + " ",
			wantStatus: http.StatusOK,
			wantCalled: true,
			wantTenant: headerTenant,
		},
		{
			name:       "malformed header rejected",
			cfg:        TenantConfig{Default: defaultTenant},
			header:     "acme-traders",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "nil uuid header rejected",
			cfg:        TenantConfig{Default: defaultTenant},
			header:     uuid.Nil.String(),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capture := &tenantCapture{}
			h := ResolveTenant(tt.cfg)(capture.handler())

			req := httptest.NewRequest(http.MethodPost, "/api/gst/invoices/compute", nil)
			if tt.header != "" {
				req.Header.Set(TenantHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, capture.called)
			if tt.wantCalled {
				assert.Equal(t, tt.wantTenant, capture.tenant)
			} else {
				env := decodeEnvelope(t, rec)
				assert.Equal(t, domain.EINVALID, env.Error.Code)
				assert.Equal(t, "Invalid X-Tenant-ID header", env.Error.Message)
			}
		})
	}
}

func TestResolveTenant_CustomHeader(t *testing.T) {
	capture := &tenantCapture{}
	h := ResolveTenant(TenantConfig{Header: "X-Org"})(capture.handler())

	req := httptest.NewRequest(http.MethodGet, "/api/gst/classify", nil)
	req.Header.Set("X-Org", headerTenant.String())
	req.Header.Set(TenantHeader, "ignored")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, headerTenant, capture.tenant)
}

// =============================================================================
// RequireTenant
// =============================================================================

func TestRequireTenant(t *testing.T) {
	t.Run("rejects request without tenant", func(t *testing.T) {
		capture := &tenantCapture{}
		h := ResolveTenant(TenantConfig{})(RequireTenant(capture.handler()))

		req := httptest.NewRequest(http.MethodGet, "/api/gst/invoices/abc/verify", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, capture.called)
		assert.Equal(t, "Missing X-Tenant-ID header", decodeEnvelope(t, rec).Error.Message)
	})

	t.Run("passes request with tenant", func(t *testing.T) {
		capture := &tenantCapture{}
		h := ResolveTenant(TenantConfig{})(RequireTenant(capture.handler()))

		req := httptest.NewRequest(http.MethodGet, "/api/gst/invoices/abc/verify", nil)
		req.Header.Set(TenantHeader, headerTenant.String())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, headerTenant, capture.tenant)
	})
}
