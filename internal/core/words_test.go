package core_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"billing-engine/internal/core"
)

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0", "Zero Rupees Only"},
		{"1", "One Rupees Only"},
		{"19", "Nineteen Rupees Only"},
		{"20", "Twenty Rupees Only"},
		{"42", "Forty Two Rupees Only"},
		{"100", "One Hundred Rupees Only"},
		{"118", "One Hundred Eighteen Rupees Only"},
		{"352", "Three Hundred Fifty Two Rupees Only"},
		{"1000", "One Thousand Rupees Only"},
		{"1001", "One Thousand One Rupees Only"},
		{"20015", "Twenty Thousand Fifteen Rupees Only"},
		{"1000000", "One Million Rupees Only"},
		{"1234567", "One Million Two Hundred Thirty Four Thousand Five Hundred Sixty Seven Rupees Only"},
		{"2000000001", "Two Billion One Rupees Only"},
		{"-5", "Minus Five Rupees Only"},
	}
	for _, c := range cases {
		t.Run(c.amount, func(t *testing.T) {
			got := core.AmountInWords(decimal.RequireFromString(c.amount))
			assert.Equal(t, c.want, got)
		})
	}
}

func TestAmountInWords_IgnoresFraction(t *testing.T) {
	assert.Equal(t, "Ten Rupees Only", core.AmountInWords(decimal.RequireFromString("10.99")))
}
