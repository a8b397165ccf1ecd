package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dukerupert/tally/internal/domain"
	"github.com/dukerupert/tally/internal/gst"
	"github.com/dukerupert/tally/internal/telemetry"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// TaxServiceConfig holds the dependencies of a TaxService.
type TaxServiceConfig struct {
	Calculator *gst.Calculator

	// Repo is optional. Without it VerifyStored and Reconcile return
	// ErrStoreUnavailable.
	Repo domain.InvoiceRepository

	// Cache holds stored-invoice verification results. Nil disables caching.
	Cache *cache.Cache

	Metrics *telemetry.BusinessMetrics
	Logger  *slog.Logger

	// Now is used for CheckedAt and discrepancy timestamps. Defaults to time.Now.
	Now func() time.Time
}

// TaxService implements domain.InvoiceTaxService on top of a gst.Calculator.
type TaxService struct {
	calc    *gst.Calculator
	repo    domain.InvoiceRepository
	cache   *cache.Cache
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
	now     func() time.Time
}

var _ domain.InvoiceTaxService = (*TaxService)(nil)

// NewTaxService creates a TaxService. A nil Calculator gets the default options.
func NewTaxService(cfg TaxServiceConfig) *TaxService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	calc := cfg.Calculator
	if calc == nil {
		calc = gst.NewCalculator(gst.Options{Logger: logger})
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &TaxService{
		calc:    calc,
		repo:    cfg.Repo,
		cache:   cfg.Cache,
		metrics: cfg.Metrics,
		logger:  logger.With("service", "gst"),
		now:     now,
	}
}

// Classify reports whether a supply between two states is inter-state.
func (s *TaxService) Classify(ctx context.Context, sellerState, buyerState string) gst.Classification {
	class := s.calc.Classify(sellerState, buyerState)
	if class.Degraded {
		telemetry.AddBreadcrumb("gst", "unresolved state", map[string]interface{}{
			"seller_state": sellerState,
			"buyer_state":  buyerState,
		})
	}
	return class
}

// Compute validates and computes an invoice.
func (s *TaxService) Compute(ctx context.Context, tc gst.TransactionContext, items []gst.LineItem) (*gst.ComputedInvoice, error) {
	tenant := tenantLabel(ctx)

	computed, err := s.calc.ComputeInvoice(tc, items)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ComputeFailures.WithLabelValues(tenant, domain.ErrorCode(err)).Inc()
		}
		s.logger.DebugContext(ctx, "invoice rejected",
			"tenant_id", tenant,
			"code", domain.ErrorCode(err),
			"error", err,
		)
		return nil, err
	}

	if computed.Classification.Degraded {
		telemetry.AddBreadcrumb("gst", "unresolved state", map[string]interface{}{
			"seller_state":   tc.SellerState,
			"buyer_state":    tc.BuyerState,
			"is_inter_state": tc.IsInterState,
		})
	}
	s.metrics.ObserveComputed(tenant,
		computed.Classification.InterState,
		computed.Classification.Degraded,
		len(computed.Lines),
		computed.Totals.GrandTotal,
		computed.RoundOff,
	)
	return computed, nil
}

// Verify recomputes an invoice and compares it with its supplied totals.
func (s *TaxService) Verify(ctx context.Context, inv gst.Invoice) (*domain.VerificationResult, error) {
	return s.verify(ctx, uuid.Nil, inv, telemetry.SourceRequest)
}

// VerifyStored loads the tenant's invoice and verifies it. Results are cached
// per tenant, invoice and last update, so an edited invoice is always
// re-verified.
func (s *TaxService) VerifyStored(ctx context.Context, invoiceID uuid.UUID) (*domain.VerificationResult, error) {
	if s.repo == nil {
		return nil, ErrStoreUnavailable
	}

	ctx, finish := telemetry.StartSpan(ctx, "gst.verify_stored", invoiceID.String())
	defer finish()

	rec, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	key := cacheKey(rec)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			s.observeCacheLookup("hit")
			return v.(*domain.VerificationResult), nil
		}
		s.observeCacheLookup("miss")
	}

	result, err := s.verify(ctx, rec.ID, rec.GSTInvoice(), telemetry.SourceStored)
	if err != nil {
		return nil, err
	}

	if !result.Consistent {
		telemetry.CaptureConsistencyError(ctx, rec.ID.String(), result.Mismatches)
	}
	if s.cache != nil {
		s.cache.Set(key, result, cache.DefaultExpiration)
	}
	return result, nil
}

// Reconcile verifies a stored invoice and brings the discrepancy ledger in
// line with the outcome: mismatches replace the open discrepancies, a
// consistent invoice resolves them.
func (s *TaxService) Reconcile(ctx context.Context, rec *domain.InvoiceRecord) (*domain.VerificationResult, error) {
	if rec == nil {
		return nil, ErrNilInvoiceRecord
	}
	if s.repo == nil {
		return nil, ErrStoreUnavailable
	}

	result, err := s.verify(ctx, rec.ID, rec.GSTInvoice(), telemetry.SourceSweeper)
	if err != nil {
		return nil, err
	}

	if result.Consistent {
		if err := s.repo.ResolveDiscrepancies(ctx, rec.ID, result.CheckedAt); err != nil {
			return nil, fmt.Errorf("resolve discrepancies for invoice %s: %w", rec.ID, err)
		}
	} else {
		ds := domain.DiscrepanciesFrom(rec.TenantID, rec.ID, result.Mismatches, result.CheckedAt)
		if err := s.repo.RecordDiscrepancies(ctx, rec.ID, ds); err != nil {
			return nil, fmt.Errorf("record discrepancies for invoice %s: %w", rec.ID, err)
		}
		telemetry.CaptureConsistencyError(ctx, rec.ID.String(), result.Mismatches)
	}

	if s.cache != nil {
		s.cache.Set(cacheKey(rec), result, cache.DefaultExpiration)
	}
	return result, nil
}

func (s *TaxService) verify(ctx context.Context, invoiceID uuid.UUID, inv gst.Invoice, source string) (*domain.VerificationResult, error) {
	tenant := tenantLabel(ctx)

	computed, err := s.Compute(ctx, inv.Context, inv.Items)
	if err != nil {
		s.observeVerification(tenant, source, telemetry.OutcomeError)
		return nil, err
	}

	mismatches := gst.ConsistencyErrors(s.calc.CompareTotals(computed.Totals, inv.Supplied))
	result := &domain.VerificationResult{
		InvoiceID:  invoiceID,
		Consistent: len(mismatches) == 0,
		Computed:   computed,
		Mismatches: mismatches,
		CheckedAt:  s.now().UTC(),
	}

	if result.Consistent {
		s.observeVerification(tenant, source, telemetry.OutcomeConsistent)
		return result, nil
	}

	s.observeVerification(tenant, source, telemetry.OutcomeMismatch)
	for _, m := range mismatches {
		s.metrics.ObserveMismatch(tenant, m.Field, m.Difference())
		s.logger.WarnContext(ctx, "invoice total mismatch",
			"tenant_id", tenant,
			"invoice_id", invoiceID,
			"source", source,
			"field", m.Field,
			"expected", m.Expected.StringFixed(gst.MoneyPlaces),
			"actual", m.Actual.StringFixed(gst.MoneyPlaces),
		)
	}
	return result, nil
}

func (s *TaxService) observeVerification(tenant, source, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.Verifications.WithLabelValues(tenant, source, outcome).Inc()
}

func (s *TaxService) observeCacheLookup(result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.VerifyCacheLookup.WithLabelValues(result).Inc()
}

// cacheKey is tenant:invoice:updatedAt.
func cacheKey(rec *domain.InvoiceRecord) string {
	return rec.TenantID.String() + ":" + rec.ID.String() + ":" + strconv.FormatInt(rec.UpdatedAt.UnixNano(), 10)
}

func tenantLabel(ctx context.Context) string {
	if id := domain.TenantIDFromContext(ctx); id != uuid.Nil {
		return id.String()
	}
	return "unknown"
}
