package telemetry_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/tally/internal/gst"
	"github.com/dukerupert/tally/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessMetrics_ObserveComputed(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewBusinessMetrics(reg, "test")

	m.ObserveComputed("t1", true, false, 2, decimal.RequireFromString("2124.00"), decimal.Zero)
	m.ObserveComputed("t1", false, true, 1, decimal.RequireFromString("1180.40"), decimal.RequireFromString("-0.40"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvoicesComputed.WithLabelValues("t1", "inter")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvoicesComputed.WithLabelValues("t1", "intra")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DegradedContexts.WithLabelValues("t1")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.InvoiceLineCount))
	assert.Equal(t, 2, testutil.CollectAndCount(m.InvoicesComputed))
}

func TestBusinessMetrics_ObserveMismatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewBusinessMetrics(reg, "")

	m.ObserveMismatch("t1", "grandTotal", decimal.RequireFromString("-0.50"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mismatches.WithLabelValues("t1", "grandTotal")))

	n, err := testutil.GatherAndCount(reg, "tally_gst_total_mismatches_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBusinessMetrics_NilIsNoop(t *testing.T) {
	var m *telemetry.BusinessMetrics
	assert.NotPanics(t, func() {
		m.ObserveComputed("t1", false, false, 1, decimal.Zero, decimal.Zero)
		m.ObserveMismatch("t1", "subtotal", decimal.Zero)
	})
}

func TestSentry_DisabledIsNoop(t *testing.T) {
	cleanup, err := telemetry.InitSentry(telemetry.SentryConfig{Enabled: false}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer cleanup()

	assert.False(t, telemetry.IsEnabled())
	assert.NotPanics(t, func() {
		telemetry.CaptureError(errors.New("boom"))
		telemetry.CaptureErrorFromContext(context.Background(), errors.New("boom"), nil)
		telemetry.CaptureConsistencyError(context.Background(), "inv-1", []*gst.ConsistencyError{{Field: "grandTotal"}})
	})

	called := false
	h := telemetry.SentryMiddleware()(telemetry.SentryTenantMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
