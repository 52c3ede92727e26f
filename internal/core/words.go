package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy",
	"Eighty", "Ninety",
}

var scaleWords = []string{"", "Thousand", "Million", "Billion", "Trillion"}

// AmountInWords spells out the whole-rupee part of an amount, e.g. 352 is
// "Three Hundred Fifty Two Rupees Only". Grand totals are rounded to a
// whole rupee before wording; a fractional remainder is never worded.
func AmountInWords(amount decimal.Decimal) string {
	n := amount.IntPart()
	if n == 0 {
		return "Zero Rupees Only"
	}

	var parts []string
	if n < 0 {
		parts = append(parts, "Minus")
		n = -n
	}

	var groups []string
	for scale := 0; n > 0; scale++ {
		group := n % 1000
		n /= 1000
		if group == 0 {
			continue
		}
		words := threeDigitWords(int(group))
		if scale > 0 {
			words += " " + scaleWords[scale]
		}
		groups = append([]string{words}, groups...)
	}
	parts = append(parts, groups...)
	return strings.Join(parts, " ") + " Rupees Only"
}

func threeDigitWords(n int) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, onesWords[n/100], "Hundred")
		n %= 100
	}
	switch {
	case n >= 20:
		parts = append(parts, tensWords[n/10])
		if n%10 > 0 {
			parts = append(parts, onesWords[n%10])
		}
	case n > 0:
		parts = append(parts, onesWords[n])
	}
	return strings.Join(parts, " ")
}
