package gst_test

import (
	"testing"

	"github.com/dukerupert/tally/internal/gst"
	"github.com/stretchr/testify/assert"
)

func Test_FormatINR(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "₹0.00"},
		{"999", "₹999.00"},
		{"1000", "₹1,000.00"},
		{"118000", "₹1,18,000.00"},
		{"1234567.891", "₹12,34,567.89"},
		{"100000000", "₹10,00,00,000.00"},
		{"-1500.5", "-₹1,500.50"},
		{"-0.001", "₹0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, gst.FormatINR(d(tt.amount)))
		})
	}
}

func Test_MinorUnits(t *testing.T) {
	assert.Equal(t, int64(118000), gst.ToMinorUnits(d("1180")))
	assert.Equal(t, int64(118001), gst.ToMinorUnits(d("1180.005")))
	assert.Equal(t, int64(-250), gst.ToMinorUnits(d("-2.5")))
	assertAmount(t, "1180.01", gst.FromMinorUnits(118001))
}

func Test_PayableRounding(t *testing.T) {
	tests := []struct {
		total        string
		wantPayable  string
		wantRoundOff string
	}{
		{"1180.00", "1180.00", "0.00"},
		{"2124.49", "2124.00", "-0.49"},
		{"1180.50", "1181.00", "0.50"},
		{"74.98", "75.00", "0.02"},
	}
	for _, tt := range tests {
		t.Run(tt.total, func(t *testing.T) {
			payable, roundOff := gst.PayableRounding(d(tt.total))
			assertAmount(t, tt.wantPayable, payable)
			assertAmount(t, tt.wantRoundOff, roundOff)
		})
	}
}
