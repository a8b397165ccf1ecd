package gst_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dukerupert/tally/internal/gst"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func supplied(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(d(s))
}

// Test_VerifyInvoiceConsistency_GrandTotalOff covers a backend grand total that is
// off by fifty paise on a single-item invoice.
func Test_VerifyInvoiceConsistency_GrandTotalOff(t *testing.T) {
	calc := newCalculator()
	inv := gst.Invoice{
		Context:  sameState,
		Items:    []gst.LineItem{intraItem()},
		Supplied: gst.SuppliedTotals{GrandTotal: supplied("1180.50")},
	}

	err := calc.VerifyInvoiceConsistency(inv)
	require.Error(t, err)

	var cerr *gst.ConsistencyError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "grandTotal", cerr.Field)
	assertAmount(t, "1180.00", cerr.Expected)
	assertAmount(t, "1180.50", cerr.Actual)
	assertAmount(t, "0.50", cerr.Difference())
	assert.Equal(t, "gst: grandTotal mismatch: expected 1180.00, got 1180.50", cerr.Error())
}

func Test_VerifyInvoiceConsistency_WithinTolerance(t *testing.T) {
	calc := newCalculator()

	tests := []struct {
		name    string
		total   string
		wantErr bool
	}{
		{"exact", "1180.00", false},
		{"one paisa over", "1180.01", false},
		{"one paisa under", "1179.99", false},
		{"two paise over", "1180.02", true},
		{"two paise under", "1179.98", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := calc.VerifyInvoiceConsistency(gst.Invoice{
				Context:  sameState,
				Items:    []gst.LineItem{intraItem()},
				Supplied: gst.SuppliedTotals{GrandTotal: supplied(tt.total)},
			})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_VerifyInvoiceConsistency_ReportsEveryField(t *testing.T) {
	calc := newCalculator()
	inv := gst.Invoice{
		Context: sameState,
		Items:   []gst.LineItem{intraItem()},
		Supplied: gst.SuppliedTotals{
			Subtotal:           supplied("999"),
			TotalDiscount:      supplied("0"),
			TotalTaxableAmount: supplied("1000"),
			TotalCGST:          supplied("90.02"),
			TotalSGST:          supplied("90"),
			TotalIGST:          supplied("0"),
			GrandTotal:         supplied("1180.50"),
		},
	}

	errs := gst.ConsistencyErrors(calc.VerifyInvoiceConsistency(inv))
	require.Len(t, errs, 3)
	assert.Equal(t, "subtotal", errs[0].Field)
	assert.Equal(t, "totalCgst", errs[1].Field)
	assert.Equal(t, "grandTotal", errs[2].Field)
}

func Test_VerifyInvoiceConsistency_NothingSupplied(t *testing.T) {
	calc := newCalculator()
	inv := gst.Invoice{Context: otherState, Items: []gst.LineItem{interItem()}}

	computed, err := calc.Verify(inv)
	require.NoError(t, err)
	assertAmount(t, "2124.00", computed.Totals.GrandTotal)
}

func Test_VerifyInvoiceConsistency_InvalidInvoice(t *testing.T) {
	calc := newCalculator()

	computed, err := calc.Verify(gst.Invoice{Context: sameState})
	assert.Nil(t, computed)
	assert.ErrorIs(t, err, gst.ErrNoLineItems)
	assert.Empty(t, gst.ConsistencyErrors(err))

	err = calc.VerifyInvoiceConsistency(gst.Invoice{Context: sameState, Items: []gst.LineItem{interItem()}})
	var verr *gst.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func Test_VerifyInvoiceConsistency_CustomEpsilon(t *testing.T) {
	calc := gst.NewCalculator(gst.Options{
		Epsilon: d("1"),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	assertAmount(t, "1.00", calc.Epsilon())

	err := calc.VerifyInvoiceConsistency(gst.Invoice{
		Context:  sameState,
		Items:    []gst.LineItem{intraItem()},
		Supplied: gst.SuppliedTotals{GrandTotal: supplied("1180.50")},
	})
	assert.NoError(t, err)
}

func Test_NewCalculator_DefaultEpsilon(t *testing.T) {
	calc := gst.NewCalculator(gst.Options{Epsilon: d("-5")})
	assert.True(t, calc.Epsilon().Equal(gst.DefaultEpsilon))
}

func Test_ConsistencyErrors_Nil(t *testing.T) {
	assert.Nil(t, gst.ConsistencyErrors(nil))
	assert.Nil(t, gst.ConsistencyErrors(errors.New("boom")))
}
