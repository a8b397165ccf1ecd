package gst

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places kept for INR amounts.
const MoneyPlaces = 2

var paisePerRupee = decimal.NewFromInt(100)

// Round2 rounds d to two decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// ToMinorUnits converts a rupee amount to paise, rounding to the nearest paisa.
func ToMinorUnits(d decimal.Decimal) int64 {
	return Round2(d).Mul(paisePerRupee).IntPart()
}

// FromMinorUnits converts paise to a rupee amount.
func FromMinorUnits(paise int64) decimal.Decimal {
	return decimal.New(paise, -MoneyPlaces)
}

// PayableRounding rounds a grand total to the nearest rupee and returns the
// payable amount together with the round-off adjustment (payable - total).
func PayableRounding(total decimal.Decimal) (payable, roundOff decimal.Decimal) {
	payable = total.Round(0)
	return payable, payable.Sub(total)
}

// FormatINR formats d the way an en-IN INR currency formatter does:
// rupee sign, Indian digit grouping and two decimals ("₹1,18,000.00").
func FormatINR(d decimal.Decimal) string {
	s := Round2(d).Abs().StringFixed(MoneyPlaces)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if Round2(d).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString("₹")
	b.WriteString(groupIndian(intPart))
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// groupIndian inserts separators after the last three digits and then every
// two digits (lakh/crore grouping).
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}
