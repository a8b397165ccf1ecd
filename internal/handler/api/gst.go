// Package api serves the GST invoice JSON endpoints.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/dukerupert/tally/internal/domain"
	"github.com/dukerupert/tally/internal/gst"
	"github.com/dukerupert/tally/internal/handler"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GSTHandler handles the /api/gst endpoints
type GSTHandler struct {
	service  domain.InvoiceTaxService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewGSTHandler creates a new GST handler
func NewGSTHandler(service domain.InvoiceTaxService, logger *slog.Logger) *GSTHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GSTHandler{
		service:  service,
		validate: newValidator(),
		logger:   logger,
	}
}

// ============================================================================
// REQUEST / RESPONSE TYPES
// ============================================================================

type lineItemRequest struct {
	Name            string          `json:"name" validate:"max=255"`
	VariationName   string          `json:"variation_name" validate:"max=255"`
	HSNCode         string          `json:"hsn_code" validate:"omitempty,alphanum,max=8"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int64           `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	CGSTRate        decimal.Decimal `json:"cgst_rate"`
	SGSTRate        decimal.Decimal `json:"sgst_rate"`
	IGSTRate        decimal.Decimal `json:"igst_rate"`
}

// invoiceRequest is the body of the compute and verify endpoints.
// IsInterState is optional on compute; when omitted the classification of
// the two states is used.
type invoiceRequest struct {
	SellerState  string             `json:"seller_state" validate:"max=64"`
	BuyerState   string             `json:"buyer_state" validate:"max=64"`
	IsInterState *bool              `json:"is_inter_state"`
	Items        []lineItemRequest  `json:"items" validate:"max=1000,dive"`
	Supplied     gst.SuppliedTotals `json:"supplied"`
}

type computeResponse struct {
	*gst.ComputedInvoice
	Formatted map[string]string `json:"formatted"`
}

type verifyResponse struct {
	InvoiceID  *uuid.UUID       `json:"invoice_id,omitempty"`
	Consistent bool             `json:"consistent"`
	Computed   *computeResponse `json:"computed"`
	CheckedAt  time.Time        `json:"checked_at"`
}

// mismatchDetails is the "details" member of a 409 response.
type mismatchDetails struct {
	InvoiceID  *uuid.UUID              `json:"invoice_id,omitempty"`
	Mismatches []*gst.ConsistencyError `json:"mismatches"`
	Computed   gst.InvoiceAggregate    `json:"computed"`
	CheckedAt  time.Time               `json:"checked_at"`
}

// ============================================================================
// HANDLERS
// ============================================================================

// Classify handles GET /api/gst/classify?seller=...&buyer=...
func (h *GSTHandler) Classify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	seller, buyer := q.Get("seller"), q.Get("buyer")

	for field, v := range map[string]string{"seller": seller, "buyer": buyer} {
		if len(v) > 64 {
			handler.ValidationErrorResponse(w, r, domain.NewValidationError("gst.classify", field, "must be at most 64 characters"))
			return
		}
	}

	handler.WriteJSON(w, http.StatusOK, h.service.Classify(r.Context(), seller, buyer))
}

// Compute handles POST /api/gst/invoices/compute
func (h *GSTHandler) Compute(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeInvoice(w, r)
	if !ok {
		return
	}

	tc := req.transactionContext()
	if req.IsInterState == nil {
		tc.IsInterState = h.service.Classify(r.Context(), req.SellerState, req.BuyerState).InterState
	}

	computed, err := h.service.Compute(r.Context(), tc, req.lineItems())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, newComputeResponse(computed))
}

// Verify handles POST /api/gst/invoices/verify
//
// Response codes:
// - 200 OK: every supplied total matches the recomputed invoice
// - 409 Conflict: at least one supplied total is off by more than the tolerance
// - 400 / 422: the invoice itself is invalid
func (h *GSTHandler) Verify(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeInvoice(w, r)
	if !ok {
		return
	}
	if req.IsInterState == nil {
		handler.ValidationErrorResponse(w, r, domain.NewValidationError("gst.verify", "is_inter_state", "is required"))
		return
	}

	result, err := h.service.Verify(r.Context(), gst.Invoice{
		Context:  req.transactionContext(),
		Items:    req.lineItems(),
		Supplied: req.Supplied,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	writeVerification(w, r, result)
}

// VerifyStored handles GET /api/gst/invoices/{id}/verify
func (h *GSTHandler) VerifyStored(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.ErrInvalidInvoiceID)
		return
	}

	result, err := h.service.VerifyStored(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	writeVerification(w, r, result)
}

func writeVerification(w http.ResponseWriter, r *http.Request, result *domain.VerificationResult) {
	var invoiceID *uuid.UUID
	if result.InvoiceID != uuid.Nil {
		invoiceID = &result.InvoiceID
	}

	if !result.Consistent {
		handler.ErrorResponseWithDetails(w, r, result.Err(), mismatchDetails{
			InvoiceID:  invoiceID,
			Mismatches: result.Mismatches,
			Computed:   result.Computed.Totals,
			CheckedAt:  result.CheckedAt,
		})
		return
	}

	handler.WriteJSON(w, http.StatusOK, verifyResponse{
		InvoiceID:  invoiceID,
		Consistent: true,
		Computed:   newComputeResponse(result.Computed),
		CheckedAt:  result.CheckedAt,
	})
}

// ============================================================================
// HELPERS
// ============================================================================

func (h *GSTHandler) decodeInvoice(w http.ResponseWriter, r *http.Request) (*invoiceRequest, bool) {
	var req invoiceRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		handler.ErrorResponse(w, r, decodeError(err))
		return nil, false
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			handler.InternalErrorResponse(w, r, err)
			return nil, false
		}
		var out error
		for _, fe := range verrs {
			out = domain.AddFieldError(out, fieldPath(fe), validationMessage(fe))
		}
		handler.ValidationErrorResponse(w, r, out)
		return nil, false
	}

	return &req, true
}

func decodeError(err error) error {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return domain.Errorf(domain.ETOOLARGE, "gst.decode", "Request body must not exceed %d bytes", maxErr.Limit)
	case errors.Is(err, io.EOF):
		return domain.Errorf(domain.EINVALID, "gst.decode", "Request body is empty")
	default:
		return domain.WrapError(err, domain.EINVALID, "gst.decode", "Request body is not a valid invoice")
	}
}

func (req *invoiceRequest) transactionContext() gst.TransactionContext {
	tc := gst.TransactionContext{
		SellerState: req.SellerState,
		BuyerState:  req.BuyerState,
	}
	if req.IsInterState != nil {
		tc.IsInterState = *req.IsInterState
	}
	return tc
}

func (req *invoiceRequest) lineItems() []gst.LineItem {
	items := make([]gst.LineItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = gst.LineItem{
			Name:            it.Name,
			VariationName:   it.VariationName,
			HSNCode:         it.HSNCode,
			UnitPrice:       it.UnitPrice,
			Quantity:        it.Quantity,
			DiscountPercent: it.DiscountPercent,
			CGSTRate:        it.CGSTRate,
			SGSTRate:        it.SGSTRate,
			IGSTRate:        it.IGSTRate,
		}
	}
	return items
}

func newComputeResponse(c *gst.ComputedInvoice) *computeResponse {
	if c == nil {
		return nil
	}
	return &computeResponse{
		ComputedInvoice: c,
		Formatted: map[string]string{
			"subtotal":      gst.FormatINR(c.Totals.Subtotal),
			"total_tax":     gst.FormatINR(c.Totals.TotalTax()),
			"grand_total":   gst.FormatINR(c.Totals.GrandTotal),
			"payable_total": gst.FormatINR(c.PayableTotal),
		},
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldPath turns "invoiceRequest.items[0].name" into "items[0].name".
func fieldPath(fe validator.FieldError) string {
	_, path, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return path
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return "must be at most " + fe.Param() + " long"
	case "alphanum":
		return "must contain only letters and digits"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
