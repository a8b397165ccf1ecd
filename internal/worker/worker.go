// Package worker runs the background consistency sweeper.
//
// The sweeper periodically re-verifies stored invoices that changed since its
// last run, keeps the discrepancy ledger current and publishes an event for
// every invoice whose stored totals disagree with the recomputed ones.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/tally/internal/domain"
	"github.com/dukerupert/tally/internal/events"
	"github.com/dukerupert/tally/internal/telemetry"
	"github.com/google/uuid"
)

// InvoiceLister lists stored invoices of every tenant.
type InvoiceLister interface {
	ListInvoicesUpdatedSince(ctx context.Context, since time.Time, afterID uuid.UUID, limit int32) ([]domain.InvoiceRecord, error)
}

// Cursor is a position in the (UpdatedAt, ID) order invoices are listed in.
// Invoices sharing an update time are told apart by ID.
type Cursor struct {
	UpdatedAt time.Time
	ID        uuid.UUID
}

func cursorOf(rec *domain.InvoiceRecord) Cursor {
	return Cursor{UpdatedAt: rec.UpdatedAt, ID: rec.ID}
}

// Reconciler verifies one stored invoice and updates its discrepancies.
type Reconciler interface {
	Reconcile(ctx context.Context, rec *domain.InvoiceRecord) (*domain.VerificationResult, error)
}

// Config holds sweeper configuration
type Config struct {
	// WorkerID uniquely identifies this sweeper instance in logs
	WorkerID string

	// Interval is how often to look for changed invoices
	Interval time.Duration

	// BatchSize is the page size used when listing invoices
	BatchSize int32

	// MaxConcurrency is the maximum number of invoices verified at once
	MaxConcurrency int

	// Lookback is how far back the first run starts
	Lookback time.Duration

	// Now defaults to time.Now
	Now func() time.Time
}

// SweepResult summarizes one run.
type SweepResult struct {
	Checked      int
	Consistent   int
	Inconsistent int
	Invalid      int // Stored invoices the calculator rejects
	Failed       int // Infrastructure errors; retried next run
}

// Sweeper re-verifies stored invoices in the background.
type Sweeper struct {
	config     Config
	invoices   InvoiceLister
	reconciler Reconciler
	publisher  events.Publisher
	metrics    *telemetry.BusinessMetrics
	logger     *slog.Logger

	mu        sync.Mutex // serializes runs and guards watermark
	watermark Cursor
}

// NewSweeper creates a new consistency sweeper
func NewSweeper(
	invoices InvoiceLister,
	reconciler Reconciler,
	publisher events.Publisher,
	metrics *telemetry.BusinessMetrics,
	config Config,
	logger *slog.Logger,
) *Sweeper {
	// Set defaults
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("sweeper-%s", uuid.New().String()[:8])
	}
	if config.Interval == 0 {
		config.Interval = time.Minute
	}
	if config.BatchSize == 0 {
		config.BatchSize = 200
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
	if config.Lookback == 0 {
		config.Lookback = 24 * time.Hour
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if publisher == nil {
		publisher = events.NewNoopPublisher(logger)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Sweeper{
		config:     config,
		invoices:   invoices,
		reconciler: reconciler,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger.With("worker_id", config.WorkerID),
		watermark:  Cursor{UpdatedAt: config.Now().Add(-config.Lookback)},
	}
}

// Watermark returns the position up to which invoices have been checked.
func (s *Sweeper) Watermark() Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watermark
}

// Start runs a sweep immediately and then every Interval until ctx is
// cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info("sweeper starting",
		"interval", s.config.Interval,
		"batch_size", s.config.BatchSize,
		"max_concurrency", s.config.MaxConcurrency,
		"since", s.Watermark().UpdatedAt,
	)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			s.logger.Info("sweeper shutting down")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce checks every invoice changed since the watermark, one page at a
// time. The watermark never moves past an invoice that failed with an
// infrastructure error, so it is retried on the next run.
func (s *Sweeper) RunOnce(ctx context.Context) (SweepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	var total SweepResult

	for {
		records, err := s.invoices.ListInvoicesUpdatedSince(ctx, s.watermark.UpdatedAt, s.watermark.ID, s.config.BatchSize)
		if err != nil {
			s.finishRun(start, "error")
			telemetry.CaptureError(err, map[string]interface{}{"worker_id": s.config.WorkerID})
			return total, fmt.Errorf("list invoices: %w", err)
		}
		if len(records) == 0 {
			break
		}

		page, failed := s.processBatch(ctx, records)
		total.add(page)

		if failed >= 0 {
			if failed > 0 {
				s.watermark = cursorOf(&records[failed-1])
			}
			break
		}
		s.watermark = cursorOf(&records[len(records)-1])

		if int32(len(records)) < s.config.BatchSize || ctx.Err() != nil {
			break
		}
	}

	s.finishRun(start, "ok")
	s.logger.Info("sweep completed",
		"checked", total.Checked,
		"inconsistent", total.Inconsistent,
		"invalid", total.Invalid,
		"failed", total.Failed,
		"duration", time.Since(start),
	)
	return total, ctx.Err()
}

// processBatch verifies records concurrently. failed is the index of the
// earliest record that failed with an infrastructure error or was never
// started, or -1.
func (s *Sweeper) processBatch(ctx context.Context, records []domain.InvoiceRecord) (SweepResult, int) {
	sem := make(chan struct{}, s.config.MaxConcurrency)
	outcomes := make([]outcome, len(records))

	var wg sync.WaitGroup
	for i := range records {
		if ctx.Err() != nil {
			outcomes[i] = outcomeSkipped
			continue
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = s.process(ctx, &records[i])
		}(i)
	}
	wg.Wait()

	var res SweepResult
	failed := -1
	for i, o := range outcomes {
		if o == outcomeSkipped {
			if failed < 0 {
				failed = i
			}
			continue
		}
		res.Checked++
		switch o {
		case outcomeConsistent:
			res.Consistent++
		case outcomeInconsistent:
			res.Inconsistent++
		case outcomeInvalid:
			res.Invalid++
		case outcomeFailed:
			res.Failed++
			if failed < 0 {
				failed = i
			}
		}
	}
	if s.metrics != nil {
		s.metrics.SweepInvoices.Add(float64(res.Checked))
	}
	return res, failed
}

type outcome int

const (
	outcomeConsistent outcome = iota
	outcomeInconsistent
	outcomeInvalid
	outcomeFailed
	outcomeSkipped // not started before cancellation
)

func (s *Sweeper) process(ctx context.Context, rec *domain.InvoiceRecord) outcome {
	logger := s.logger.With("tenant_id", rec.TenantID, "invoice_id", rec.ID)

	tctx, err := withTenantContext(ctx, rec)
	if err != nil {
		logger.Warn("skipping invoice without tenant")
		return outcomeInvalid
	}

	result, err := s.reconciler.Reconcile(tctx, rec)
	if err != nil {
		if domain.IsCode(err, domain.EINVALID) || domain.IsCode(err, domain.EUNPROCESSABLE) {
			logger.Warn("stored invoice cannot be computed", "error", err)
			return outcomeInvalid
		}
		logger.Error("failed to reconcile invoice", "error", err)
		telemetry.CaptureError(err, map[string]interface{}{
			"tenant_id":  rec.TenantID.String(),
			"invoice_id": rec.ID.String(),
		})
		return outcomeFailed
	}

	if result.Consistent {
		return outcomeConsistent
	}

	ev := events.NewDiscrepancyEvent(rec, result)
	if err := s.publisher.PublishDiscrepancy(tctx, ev); err != nil {
		s.observeEvent("error")
		logger.Error("failed to publish discrepancy event", "event_id", ev.ID, "error", err)
	} else {
		s.observeEvent("ok")
	}
	return outcomeInconsistent
}

func (s *Sweeper) finishRun(start time.Time, status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.SweepRuns.WithLabelValues(status).Inc()
	s.metrics.SweepDuration.Observe(time.Since(start).Seconds())
}

func (s *Sweeper) observeEvent(status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.EventsPublished.WithLabelValues(status).Inc()
}

func (r *SweepResult) add(o SweepResult) {
	r.Checked += o.Checked
	r.Consistent += o.Consistent
	r.Inconsistent += o.Inconsistent
	r.Invalid += o.Invalid
	r.Failed += o.Failed
}
