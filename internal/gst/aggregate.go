package gst

import "github.com/shopspring/decimal"

// AggregateInvoice sums line results into invoice totals.
//
// GrandTotal is the sum of line totals, which are themselves built from the
// already-rounded components, so GrandTotal equals
// TotalTaxableAmount + TotalCGST + TotalSGST + TotalIGST exactly.
func (c *Calculator) AggregateInvoice(lines []LineTaxResult) (InvoiceAggregate, error) {
	if len(lines) == 0 {
		return InvoiceAggregate{}, ErrNoLineItems
	}

	agg := InvoiceAggregate{
		LineCount:          len(lines),
		Subtotal:           decimal.Zero,
		TotalDiscount:      decimal.Zero,
		TotalTaxableAmount: decimal.Zero,
		TotalCGST:          decimal.Zero,
		TotalSGST:          decimal.Zero,
		TotalIGST:          decimal.Zero,
		GrandTotal:         decimal.Zero,
	}

	for i, line := range lines {
		if line.Err != nil {
			return InvoiceAggregate{}, &AggregationError{
				Index:  i,
				Reason: "is invalid",
				Err:    line.Err,
			}
		}
		agg.Subtotal = agg.Subtotal.Add(line.GrossAmount)
		agg.TotalDiscount = agg.TotalDiscount.Add(line.DiscountAmount)
		agg.TotalTaxableAmount = agg.TotalTaxableAmount.Add(line.TaxableAmount)
		agg.TotalCGST = agg.TotalCGST.Add(line.CGSTAmount)
		agg.TotalSGST = agg.TotalSGST.Add(line.SGSTAmount)
		agg.TotalIGST = agg.TotalIGST.Add(line.IGSTAmount)
		agg.GrandTotal = agg.GrandTotal.Add(line.LineTotal)
	}

	if !agg.GrandTotal.Equal(agg.TotalTaxableAmount.Add(agg.TotalTax())) {
		// Unreachable for results produced by ComputeLineTax; hand-built
		// results with inconsistent fields end up here.
		return InvoiceAggregate{}, &AggregationError{
			Index:  ContextIndex,
			Reason: "line totals do not equal taxable value plus tax",
		}
	}

	return agg, nil
}
