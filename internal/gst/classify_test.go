package gst_test

import (
	"errors"
	"testing"

	"github.com/dukerupert/tally/internal/gst"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ClassifyTransaction(t *testing.T) {
	tests := []struct {
		name   string
		seller string
		buyer  string
		want   bool
	}{
		{"same state", "Karnataka", "Karnataka", false},
		{"case and whitespace", "  tamil   NADU ", "Tamil Nadu", false},
		{"name against code", "Karnataka", "29", false},
		{"alias", "Orissa", "Odisha", false},
		{"different states", "Karnataka", "Maharashtra", true},
		{"different codes", "07", "27", true},
		{"empty seller", "", "Karnataka", false},
		{"both empty", "", "", false},
		{"unknown buyer", "Karnataka", "Atlantis", true},
		{"unknown on both sides, same name", " Atlantis", "atlantis ", false},
		{"two-letter codes", "MH", "KA", true},
		{"two-letter code against name", "dl", "Delhi", false},
		{"two-letter code against number", "TN", "33", false},
		{"pre-merger union territory", "Gujarat", "Daman and Diu", true},
		{"merged union territory", "Dadra and Nagar Haveli", "Dadra and Nagar Haveli and Daman and Diu", false},
	}

	calc := newCalculator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.ClassifyTransaction(tt.seller, tt.buyer))
		})
	}
}

func Test_Classify_FlagsDegradedInput(t *testing.T) {
	calc := newCalculator()

	class := calc.Classify("Karnataka", "")
	assert.False(t, class.InterState)
	assert.True(t, class.Degraded)
	assert.Equal(t, "29", class.SellerCode)
	assert.Empty(t, class.BuyerCode)

	class = calc.Classify("Karnataka", "Kerala")
	assert.True(t, class.InterState)
	assert.False(t, class.Degraded)

	class = calc.Classify("Karnataka", "Karnatak")
	assert.True(t, class.InterState)
	assert.True(t, class.Degraded)
	assert.Equal(t, "29", class.SellerCode)
	assert.Empty(t, class.BuyerCode)
}

func Test_ComputeInvoice_DerivedInterStateFromAbbreviations(t *testing.T) {
	calc := newCalculator()

	class := calc.Classify("MH", "KA")
	require.True(t, class.InterState)

	tc := gst.TransactionContext{SellerState: "MH", BuyerState: "KA", IsInterState: class.InterState}
	items := []gst.LineItem{{
		Name:      "Chair",
		UnitPrice: decimal.NewFromInt(1000),
		Quantity:  1,
		IGSTRate:  decimal.NewFromInt(18),
	}}

	computed, err := calc.ComputeInvoice(tc, items)
	require.NoError(t, err)
	assert.True(t, computed.Totals.TotalIGST.Equal(decimal.NewFromInt(180)))
	assert.True(t, computed.Totals.GrandTotal.Equal(decimal.NewFromInt(1180)))
}

func Test_ValidateContext(t *testing.T) {
	calc := newCalculator()

	t.Run("matching flag", func(t *testing.T) {
		_, err := calc.ValidateContext(otherState)
		assert.NoError(t, err)
	})

	t.Run("contradicting flag", func(t *testing.T) {
		tc := gst.TransactionContext{SellerState: "Karnataka", BuyerState: "Maharashtra", IsInterState: false}
		_, err := calc.ValidateContext(tc)

		var verr *gst.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, gst.ContextIndex, verr.Index)
		assert.Equal(t, "isInterState", verr.Field)
		assert.Equal(t, "false", verr.Value)
	})

	t.Run("degraded keeps supplied flag", func(t *testing.T) {
		tc := gst.TransactionContext{SellerState: "", BuyerState: "Karnataka", IsInterState: true}
		class, err := calc.ValidateContext(tc)
		require.NoError(t, err)
		assert.True(t, class.InterState)
		assert.True(t, class.Degraded)
	})
}
