// Package gst computes Indian Goods & Services Tax for invoices.
//
// The calculator classifies a supply as intra-state (CGST + SGST) or
// inter-state (IGST), computes the tax of every line item on its post-discount
// taxable value, aggregates lines into invoice totals and cross-checks totals
// persisted by other systems. All arithmetic uses shopspring/decimal; amounts
// are rounded to two places per line, per tax component.
//
// A Calculator holds no mutable state and is safe for concurrent use.
package gst

import (
	"log/slog"

	"github.com/shopspring/decimal"
)

// DefaultEpsilon is the per-field tolerance used when comparing computed totals
// with totals supplied by another system.
var DefaultEpsilon = decimal.New(1, -2) // 0.01

var hundred = decimal.NewFromInt(100)

// LineItem is a single invoice line as supplied by the backend.
// Name, VariationName and HSNCode are passed through untouched.
type LineItem struct {
	Name            string          `json:"name"`
	VariationName   string          `json:"variation_name,omitempty"`
	HSNCode         string          `json:"hsn_code,omitempty"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int64           `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	CGSTRate        decimal.Decimal `json:"cgst_rate"`
	SGSTRate        decimal.Decimal `json:"sgst_rate"`
	IGSTRate        decimal.Decimal `json:"igst_rate"`
}

// TransactionContext describes the parties of the supply.
type TransactionContext struct {
	SellerState  string `json:"seller_state"`
	BuyerState   string `json:"buyer_state"`
	IsInterState bool   `json:"is_inter_state"`
}

// LineTaxResult is the computed breakdown of one line item.
// Err is set when the line failed validation; the amounts are then zero.
type LineTaxResult struct {
	Index          int             `json:"index"`
	Item           LineItem        `json:"item"`
	GrossAmount    decimal.Decimal `json:"gross_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	CGSTAmount     decimal.Decimal `json:"cgst_amount"`
	SGSTAmount     decimal.Decimal `json:"sgst_amount"`
	IGSTAmount     decimal.Decimal `json:"igst_amount"`
	LineTotal      decimal.Decimal `json:"line_total"`
	Err            error           `json:"-"`
}

// TotalTax returns the sum of the line's tax components.
func (r LineTaxResult) TotalTax() decimal.Decimal {
	return r.CGSTAmount.Add(r.SGSTAmount).Add(r.IGSTAmount)
}

// InvoiceAggregate holds invoice-level totals derived from line results.
type InvoiceAggregate struct {
	LineCount          int             `json:"line_count"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	TotalDiscount      decimal.Decimal `json:"total_discount"`
	TotalTaxableAmount decimal.Decimal `json:"total_taxable_amount"`
	TotalCGST          decimal.Decimal `json:"total_cgst"`
	TotalSGST          decimal.Decimal `json:"total_sgst"`
	TotalIGST          decimal.Decimal `json:"total_igst"`
	GrandTotal         decimal.Decimal `json:"grand_total"`
}

// TotalTax returns TotalCGST + TotalSGST + TotalIGST.
func (a InvoiceAggregate) TotalTax() decimal.Decimal {
	return a.TotalCGST.Add(a.TotalSGST).Add(a.TotalIGST)
}

// SuppliedTotals are aggregate values persisted by an upstream system.
// Only fields with Valid set are cross-checked.
type SuppliedTotals struct {
	Subtotal           decimal.NullDecimal `json:"subtotal"`
	TotalDiscount      decimal.NullDecimal `json:"total_discount"`
	TotalTaxableAmount decimal.NullDecimal `json:"total_taxable_amount"`
	TotalCGST          decimal.NullDecimal `json:"total_cgst"`
	TotalSGST          decimal.NullDecimal `json:"total_sgst"`
	TotalIGST          decimal.NullDecimal `json:"total_igst"`
	GrandTotal         decimal.NullDecimal `json:"grand_total"`
}

// Invoice is an immutable snapshot of a backend invoice record.
type Invoice struct {
	Context  TransactionContext `json:"context"`
	Items    []LineItem         `json:"items"`
	Supplied SuppliedTotals     `json:"supplied"`
}

// Classification is the outcome of classifying a seller/buyer pair.
type Classification struct {
	InterState bool   `json:"is_inter_state"`
	Degraded   bool   `json:"degraded"`
	SellerCode string `json:"seller_code,omitempty"`
	BuyerCode  string `json:"buyer_code,omitempty"`
}

// ComputedInvoice is a fully resolved invoice.
type ComputedInvoice struct {
	Classification Classification   `json:"classification"`
	Lines          []LineTaxResult  `json:"lines"`
	Totals         InvoiceAggregate `json:"totals"`
	RateSummary    []RateSummary    `json:"rate_summary"`
	PayableTotal   decimal.Decimal  `json:"payable_total"`
	RoundOff       decimal.Decimal  `json:"round_off"`
}

// Options configure a Calculator.
type Options struct {
	// Epsilon is the per-field tolerance for VerifyInvoiceConsistency.
	// Zero means DefaultEpsilon.
	Epsilon decimal.Decimal

	// AllowNilRated accepts lines whose rates are all zero (exempt and
	// nil-rated supplies). When false such lines are rejected.
	AllowNilRated bool

	// Logger receives degraded-input warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// Calculator is the GST invoice calculator.
type Calculator struct {
	epsilon       decimal.Decimal
	allowNilRated bool
	logger        *slog.Logger
}

// NewCalculator creates a calculator with the given options.
func NewCalculator(opts Options) *Calculator {
	eps := opts.Epsilon
	if eps.IsZero() || eps.IsNegative() {
		eps = DefaultEpsilon
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{
		epsilon:       eps,
		allowNilRated: opts.AllowNilRated,
		logger:        logger,
	}
}

// Epsilon returns the tolerance used for consistency checks.
func (c *Calculator) Epsilon() decimal.Decimal {
	return c.epsilon
}

// ComputeInvoice validates the transaction context, computes every line and
// aggregates them. It stops at the first invalid line.
func (c *Calculator) ComputeInvoice(tc TransactionContext, items []LineItem) (*ComputedInvoice, error) {
	class, err := c.ValidateContext(tc)
	if err != nil {
		return nil, err
	}

	lines := make([]LineTaxResult, 0, len(items))
	for i, item := range items {
		res, err := c.ComputeLineTax(i, item, class.InterState)
		if err != nil {
			return nil, err
		}
		lines = append(lines, res)
	}

	totals, err := c.AggregateInvoice(lines)
	if err != nil {
		return nil, err
	}

	payable, roundOff := PayableRounding(totals.GrandTotal)
	return &ComputedInvoice{
		Classification: class,
		Lines:          lines,
		Totals:         totals,
		RateSummary:    Summarize(lines),
		PayableTotal:   payable,
		RoundOff:       roundOff,
	}, nil
}
