package gst

import "github.com/shopspring/decimal"

// ComputeLineTax computes the tax breakdown of one line item.
//
// The order is fixed: gross, discount, taxable value, tax amounts, line total.
// Tax is always charged on the post-discount taxable value and each tax
// component is rounded to two places on its own before summing. Gross,
// discount and taxable value keep full precision.
func (c *Calculator) ComputeLineTax(index int, item LineItem, isInterState bool) (LineTaxResult, error) {
	if err := c.validateLine(index, item, isInterState); err != nil {
		return LineTaxResult{Index: index, Item: item, Err: err}, err
	}

	gross := item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity))
	discount := percentOf(gross, item.DiscountPercent)
	taxable := gross.Sub(discount)

	cgst := Round2(percentOf(taxable, item.CGSTRate))
	sgst := Round2(percentOf(taxable, item.SGSTRate))
	igst := Round2(percentOf(taxable, item.IGSTRate))

	return LineTaxResult{
		Index:          index,
		Item:           item,
		GrossAmount:    gross,
		DiscountAmount: discount,
		TaxableAmount:  taxable,
		CGSTAmount:     cgst,
		SGSTAmount:     sgst,
		IGSTAmount:     igst,
		LineTotal:      taxable.Add(cgst).Add(sgst).Add(igst),
	}, nil
}

// ComputeLines computes every line, keeping invalid lines in the result with
// Err set so that all problems can be reported at once.
func (c *Calculator) ComputeLines(items []LineItem, isInterState bool) []LineTaxResult {
	results := make([]LineTaxResult, len(items))
	for i, item := range items {
		results[i], _ = c.ComputeLineTax(i, item, isInterState)
	}
	return results
}

// percentOf returns amount * pct / 100 without division.
func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Shift(-2)
}

func (c *Calculator) validateLine(index int, item LineItem, isInterState bool) error {
	if item.UnitPrice.IsNegative() {
		return invalidLine(index, "unitPrice", item.UnitPrice, "must not be negative")
	}
	if item.Quantity < 0 {
		return invalidLine(index, "quantity", decimal.NewFromInt(item.Quantity), "must not be negative")
	}
	if item.DiscountPercent.IsNegative() || item.DiscountPercent.GreaterThan(hundred) {
		return invalidLine(index, "discountPercent", item.DiscountPercent, "must be between 0 and 100")
	}

	rates := []struct {
		field string
		rate  decimal.Decimal
	}{
		{"cgstRate", item.CGSTRate},
		{"sgstRate", item.SGSTRate},
		{"igstRate", item.IGSTRate},
	}
	for _, r := range rates {
		if r.rate.IsNegative() {
			return invalidLine(index, r.field, r.rate, "must not be negative")
		}
	}

	hasCGST := item.CGSTRate.IsPositive()
	hasSGST := item.SGSTRate.IsPositive()
	hasIGST := item.IGSTRate.IsPositive()

	if isInterState {
		switch {
		case hasCGST:
			return invalidLine(index, "cgstRate", item.CGSTRate, "must be zero for an inter-state supply")
		case hasSGST:
			return invalidLine(index, "sgstRate", item.SGSTRate, "must be zero for an inter-state supply")
		case !hasIGST && !c.allowNilRated:
			return invalidLine(index, "igstRate", item.IGSTRate, "must be greater than zero for an inter-state supply")
		}
		return nil
	}

	switch {
	case hasIGST:
		return invalidLine(index, "igstRate", item.IGSTRate, "must be zero for an intra-state supply")
	case hasCGST && !hasSGST:
		return invalidLine(index, "sgstRate", item.SGSTRate, "must be set together with cgstRate")
	case hasSGST && !hasCGST:
		return invalidLine(index, "cgstRate", item.CGSTRate, "must be set together with sgstRate")
	case !hasCGST && !c.allowNilRated:
		return invalidLine(index, "cgstRate", item.CGSTRate, "must be greater than zero for an intra-state supply")
	}
	return nil
}
