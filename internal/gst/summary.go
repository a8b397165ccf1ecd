package gst

import "github.com/shopspring/decimal"

// RateSummary is one row of the HSN-wise tax summary printed under an invoice.
type RateSummary struct {
	HSNCode       string          `json:"hsn_code"`
	CGSTRate      decimal.Decimal `json:"cgst_rate"`
	SGSTRate      decimal.Decimal `json:"sgst_rate"`
	IGSTRate      decimal.Decimal `json:"igst_rate"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	CGSTAmount    decimal.Decimal `json:"cgst_amount"`
	SGSTAmount    decimal.Decimal `json:"sgst_amount"`
	IGSTAmount    decimal.Decimal `json:"igst_amount"`
	TotalTax      decimal.Decimal `json:"total_tax"`
}

// Summarize groups lines by HSN code and rate triple, in first-seen order.
// Amounts are sums of the already-rounded line values, so the rows add up to
// the invoice totals exactly. Lines with Err set are skipped.
func Summarize(lines []LineTaxResult) []RateSummary {
	index := make(map[string]int)
	var rows []RateSummary

	for _, l := range lines {
		if l.Err != nil {
			continue
		}
		key := l.Item.HSNCode + "|" + l.Item.CGSTRate.String() + "|" +
			l.Item.SGSTRate.String() + "|" + l.Item.IGSTRate.String()

		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, RateSummary{
				HSNCode:       l.Item.HSNCode,
				CGSTRate:      l.Item.CGSTRate,
				SGSTRate:      l.Item.SGSTRate,
				IGSTRate:      l.Item.IGSTRate,
				TaxableAmount: decimal.Zero,
				CGSTAmount:    decimal.Zero,
				SGSTAmount:    decimal.Zero,
				IGSTAmount:    decimal.Zero,
				TotalTax:      decimal.Zero,
			})
		}

		r := &rows[i]
		r.TaxableAmount = r.TaxableAmount.Add(l.TaxableAmount)
		r.CGSTAmount = r.CGSTAmount.Add(l.CGSTAmount)
		r.SGSTAmount = r.SGSTAmount.Add(l.SGSTAmount)
		r.IGSTAmount = r.IGSTAmount.Add(l.IGSTAmount)
		r.TotalTax = r.TotalTax.Add(l.TotalTax())
	}
	return rows
}
