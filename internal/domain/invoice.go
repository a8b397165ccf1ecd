package domain

//go:generate mockgen -source=invoice.go -destination=invoice_mock.go -package=domain

import (
	"context"
	"strconv"
	"time"

	"github.com/dukerupert/tally/internal/gst"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice-related domain errors.
var (
	ErrInvoiceNotFound  = &Error{Code: ENOTFOUND, Message: "Invoice not found"}
	ErrInvalidInvoiceID = &Error{Code: EINVALID, Message: "Invoice ID must be a UUID"}
	ErrStoreUnavailable = &Error{Code: EUNAVAILABLE, Message: "Invoice store is not configured"}
)

// InvoiceRecord is an invoice as persisted by the billing backend.
// The calculator treats it as a read-only snapshot.
type InvoiceRecord struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	InvoiceNumber string
	SellerState   string
	BuyerState    string
	SellerGSTIN   string
	BuyerGSTIN    string
	IsInterState  bool
	Items         []gst.LineItem
	Supplied      gst.SuppliedTotals
	IssuedAt      time.Time
	UpdatedAt     time.Time
}

// GSTInvoice converts the record to the calculator's input.
func (r *InvoiceRecord) GSTInvoice() gst.Invoice {
	return gst.Invoice{
		Context: gst.TransactionContext{
			SellerState:  r.SellerState,
			BuyerState:   r.BuyerState,
			IsInterState: r.IsInterState,
		},
		Items:    r.Items,
		Supplied: r.Supplied,
	}
}

// Discrepancy is a stored total that disagreed with the recomputed value.
type Discrepancy struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	InvoiceID  uuid.UUID
	Field      string
	Expected   decimal.Decimal
	Actual     decimal.Decimal
	DetectedAt time.Time
	ResolvedAt *time.Time
}

// DiscrepanciesFrom converts consistency errors into discrepancy rows.
func DiscrepanciesFrom(tenantID, invoiceID uuid.UUID, errs []*gst.ConsistencyError, now time.Time) []Discrepancy {
	out := make([]Discrepancy, 0, len(errs))
	for _, e := range errs {
		out = append(out, Discrepancy{
			ID:         uuid.New(),
			TenantID:   tenantID,
			InvoiceID:  invoiceID,
			Field:      e.Field,
			Expected:   e.Expected,
			Actual:     e.Actual,
			DetectedAt: now,
		})
	}
	return out
}

// VerificationResult is the outcome of cross-checking an invoice.
// Consistent is false when Mismatches is non-empty; Computed is always set.
type VerificationResult struct {
	InvoiceID  uuid.UUID               `json:"invoice_id,omitempty"`
	Consistent bool                    `json:"consistent"`
	Computed   *gst.ComputedInvoice    `json:"computed"`
	Mismatches []*gst.ConsistencyError `json:"mismatches,omitempty"`
	CheckedAt  time.Time               `json:"checked_at"`
}

// Err returns the mismatches as a single error, or nil when consistent.
func (v *VerificationResult) Err() error {
	if v.Consistent {
		return nil
	}
	return &MismatchError{Mismatches: v.Mismatches}
}

// MismatchError wraps every consistency error found for one invoice.
type MismatchError struct {
	Mismatches []*gst.ConsistencyError
}

func (e *MismatchError) Error() string {
	if len(e.Mismatches) == 1 {
		return e.Mismatches[0].Error()
	}
	return "gst: " + strconv.Itoa(len(e.Mismatches)) + " totals do not match"
}

// ErrorCode returns ECONFLICT.
func (e *MismatchError) ErrorCode() string {
	return ECONFLICT
}

// ErrorMessage returns the user-facing message.
func (e *MismatchError) ErrorMessage() string {
	if len(e.Mismatches) == 1 {
		return e.Mismatches[0].ErrorMessage()
	}
	return "Stored totals do not match the computed invoice (" + strconv.Itoa(len(e.Mismatches)) + " fields)"
}

// Unwrap exposes the individual consistency errors to errors.As.
func (e *MismatchError) Unwrap() []error {
	errs := make([]error, len(e.Mismatches))
	for i, m := range e.Mismatches {
		errs[i] = m
	}
	return errs
}

// InvoiceRepository reads backend invoice records and maintains the
// discrepancy ledger. Every method is scoped to the tenant in ctx.
type InvoiceRepository interface {
	// GetInvoice returns ErrInvoiceNotFound when the invoice does not exist
	// for the tenant.
	GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceRecord, error)

	// ListInvoicesUpdatedSince returns up to limit invoices of any tenant
	// whose (UpdatedAt, ID) sorts after (since, afterID), oldest first.
	ListInvoicesUpdatedSince(ctx context.Context, since time.Time, afterID uuid.UUID, limit int32) ([]InvoiceRecord, error)

	// RecordDiscrepancies stores open discrepancies, replacing any open ones
	// for the same invoice.
	RecordDiscrepancies(ctx context.Context, invoiceID uuid.UUID, ds []Discrepancy) error

	// ResolveDiscrepancies marks every open discrepancy of the invoice resolved.
	ResolveDiscrepancies(ctx context.Context, invoiceID uuid.UUID, at time.Time) error

	// ListOpenDiscrepancies returns the unresolved discrepancies of an invoice.
	ListOpenDiscrepancies(ctx context.Context, invoiceID uuid.UUID) ([]Discrepancy, error)
}

// InvoiceTaxService computes and verifies GST invoices.
type InvoiceTaxService interface {
	// Classify reports whether a supply between two states is inter-state.
	Classify(ctx context.Context, sellerState, buyerState string) gst.Classification

	// Compute validates and computes an invoice.
	Compute(ctx context.Context, tc gst.TransactionContext, items []gst.LineItem) (*gst.ComputedInvoice, error)

	// Verify recomputes an invoice and compares it with its supplied totals.
	// Calculator errors are returned as-is; mismatches are reported in the result.
	Verify(ctx context.Context, inv gst.Invoice) (*VerificationResult, error)

	// VerifyStored loads the tenant's invoice and verifies it.
	VerifyStored(ctx context.Context, invoiceID uuid.UUID) (*VerificationResult, error)
}
