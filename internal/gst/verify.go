package gst

import (
	"errors"

	"github.com/shopspring/decimal"
)

// VerifyInvoiceConsistency recomputes the invoice from its line items and
// compares the result with every supplied total. Mismatches beyond the
// calculator's epsilon are returned as ConsistencyErrors joined with
// errors.Join; use ConsistencyErrors to list them. Supplied values are never
// corrected.
func (c *Calculator) VerifyInvoiceConsistency(inv Invoice) error {
	_, err := c.Verify(inv)
	return err
}

// Verify is VerifyInvoiceConsistency but also returns the recomputed invoice.
// The invoice is nil only when recomputation itself failed.
func (c *Calculator) Verify(inv Invoice) (*ComputedInvoice, error) {
	computed, err := c.ComputeInvoice(inv.Context, inv.Items)
	if err != nil {
		return nil, err
	}
	return computed, c.CompareTotals(computed.Totals, inv.Supplied)
}

// CompareTotals checks supplied against computed, field by field, in a fixed
// order. Fields without a supplied value are skipped.
func (c *Calculator) CompareTotals(computed InvoiceAggregate, supplied SuppliedTotals) error {
	checks := []struct {
		field    string
		expected decimal.Decimal
		actual   decimal.NullDecimal
	}{
		{"subtotal", computed.Subtotal, supplied.Subtotal},
		{"totalDiscount", computed.TotalDiscount, supplied.TotalDiscount},
		{"totalTaxableAmount", computed.TotalTaxableAmount, supplied.TotalTaxableAmount},
		{"totalCgst", computed.TotalCGST, supplied.TotalCGST},
		{"totalSgst", computed.TotalSGST, supplied.TotalSGST},
		{"totalIgst", computed.TotalIGST, supplied.TotalIGST},
		{"grandTotal", computed.GrandTotal, supplied.GrandTotal},
	}

	var errs []error
	for _, chk := range checks {
		if !chk.actual.Valid {
			continue
		}
		if chk.actual.Decimal.Sub(chk.expected).Abs().GreaterThan(c.epsilon) {
			errs = append(errs, &ConsistencyError{
				Field:    chk.field,
				Expected: chk.expected,
				Actual:   chk.actual.Decimal,
			})
		}
	}
	return errors.Join(errs...)
}
