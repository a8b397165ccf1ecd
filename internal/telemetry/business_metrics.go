package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Verification sources.
const (
	SourceRequest = "request"
	SourceStored  = "stored"
	SourceSweeper = "sweeper"
)

// Verification outcomes.
const (
	OutcomeConsistent = "consistent"
	OutcomeMismatch   = "mismatch"
	OutcomeError      = "error"
)

// BusinessMetrics holds Prometheus metrics for GST invoice computation.
// Per-invoice metrics include a tenant_id label for dashboard segmentation.
type BusinessMetrics struct {
	// Computation
	InvoicesComputed *prometheus.CounterVec
	ComputeFailures  *prometheus.CounterVec
	DegradedContexts *prometheus.CounterVec
	InvoiceValue     *prometheus.HistogramVec
	InvoiceLineCount prometheus.Histogram
	InvoiceRoundOff  prometheus.Histogram

	// Consistency checks
	Verifications     *prometheus.CounterVec
	Mismatches        *prometheus.CounterVec
	MismatchAmount    *prometheus.HistogramVec
	VerifyCacheLookup *prometheus.CounterVec

	// Sweeper
	SweepRuns       *prometheus.CounterVec
	SweepInvoices   prometheus.Counter
	SweepDuration   prometheus.Histogram
	EventsPublished *prometheus.CounterVec
}

// NewBusinessMetrics creates all business metrics and registers them with reg.
// A nil reg registers with the default registry.
func NewBusinessMetrics(reg prometheus.Registerer, namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "tally"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	subsystem := "gst"

	return &BusinessMetrics{
		// =======================================================================
		// Computation
		// =======================================================================
		InvoicesComputed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "invoices_computed_total",
				Help:      "Total invoices computed successfully",
			},
			[]string{"tenant_id", "supply_type"}, // supply_type: intra, inter
		),
		ComputeFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "compute_failures_total",
				Help:      "Total invoices rejected by the calculator",
			},
			[]string{"tenant_id", "code"}, // code: invalid, unprocessable
		),
		DegradedContexts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "degraded_contexts_total",
				Help:      "Invoices whose seller or buyer state could not be resolved",
			},
			[]string{"tenant_id"},
		),
		InvoiceValue: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "invoice_grand_total_rupees",
				Help:      "Grand total of computed invoices in rupees",
				Buckets:   []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000},
			},
			[]string{"tenant_id"},
		),
		InvoiceLineCount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "invoice_line_count",
				Help:      "Number of line items per computed invoice",
				Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 250},
			},
		),
		InvoiceRoundOff: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "invoice_round_off_rupees",
				Help:      "Round-off applied to reach the payable total",
				Buckets:   []float64{-0.5, -0.25, -0.01, 0, 0.01, 0.25, 0.5},
			},
		),

		// =======================================================================
		// Consistency checks
		// =======================================================================
		Verifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "verifications_total",
				Help:      "Total invoice consistency checks",
			},
			[]string{"tenant_id", "source", "outcome"},
		),
		Mismatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "total_mismatches_total",
				Help:      "Supplied totals that disagreed with the recomputed value",
			},
			[]string{"tenant_id", "field"},
		),
		MismatchAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "mismatch_amount_rupees",
				Help:      "Absolute difference between supplied and recomputed totals",
				Buckets:   []float64{0.02, 0.05, 0.1, 0.5, 1, 10, 100, 1000},
			},
			[]string{"field"},
		),
		VerifyCacheLookup: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "verify_cache_lookups_total",
				Help:      "Stored-invoice verification cache lookups",
			},
			[]string{"result"}, // result: hit, miss
		),

		// =======================================================================
		// Sweeper
		// =======================================================================
		SweepRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sweep_runs_total",
				Help:      "Consistency sweeper runs",
			},
			[]string{"status"}, // status: ok, error
		),
		SweepInvoices: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sweep_invoices_total",
				Help:      "Stored invoices re-verified by the sweeper",
			},
		),
		SweepDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sweep_duration_seconds",
				Help:      "Duration of one sweeper run",
				Buckets:   prometheus.DefBuckets,
			},
		),
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "discrepancy_events_total",
				Help:      "Discrepancy events published",
			},
			[]string{"status"}, // status: ok, error
		),
	}
}

// ObserveComputed records a successfully computed invoice.
func (m *BusinessMetrics) ObserveComputed(tenantID string, interState, degraded bool, lines int, grandTotal, roundOff decimal.Decimal) {
	if m == nil {
		return
	}
	supply := "intra"
	if interState {
		supply = "inter"
	}
	m.InvoicesComputed.WithLabelValues(tenantID, supply).Inc()
	if degraded {
		m.DegradedContexts.WithLabelValues(tenantID).Inc()
	}
	m.InvoiceValue.WithLabelValues(tenantID).Observe(grandTotal.InexactFloat64())
	m.InvoiceLineCount.Observe(float64(lines))
	m.InvoiceRoundOff.Observe(roundOff.InexactFloat64())
}

// ObserveMismatch records one supplied total that failed the check.
func (m *BusinessMetrics) ObserveMismatch(tenantID, field string, difference decimal.Decimal) {
	if m == nil {
		return
	}
	m.Mismatches.WithLabelValues(tenantID, field).Inc()
	m.MismatchAmount.WithLabelValues(field).Observe(difference.Abs().InexactFloat64())
}
