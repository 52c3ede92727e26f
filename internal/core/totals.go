package core

import "github.com/shopspring/decimal"

// TaxRates are the flat SGST and IGST percentages applied to the subtotal.
type TaxRates struct {
	SGST decimal.Decimal
	IGST decimal.Decimal
}

// DefaultTaxRates are used when the configured rates are missing or
// malformed.
func DefaultTaxRates() TaxRates {
	return TaxRates{
		SGST: decimal.NewFromInt(9),
		IGST: decimal.NewFromInt(9),
	}
}

// Totals are the derived amounts of an invoice. GrandTotal is always a
// whole rupee amount; Roundoff is the signed adjustment that gets it there.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	SGST       decimal.Decimal `json:"sgst"`
	IGST       decimal.Decimal `json:"igst"`
	Roundoff   decimal.Decimal `json:"roundoff"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	Words      string          `json:"words"`
}

var hundred = decimal.NewFromInt(100)

// ComputeTotals derives the invoice totals from a ledger snapshot. Each tax
// component is rounded to two decimals before summing; the roundoff brings
// the grand total to the nearest whole rupee, so it lies in [-0.50, 0.50].
func ComputeTotals(snap LedgerSnapshot, rates TaxRates) Totals {
	subtotal := decimal.Zero
	for _, it := range snap.Items {
		subtotal = subtotal.Add(it.Total)
	}
	subtotal = subtotal.Sub(snap.Discount)

	sgst := subtotal.Mul(rates.SGST).Div(hundred).Round(2)
	igst := subtotal.Mul(rates.IGST).Div(hundred).Round(2)

	preRound := subtotal.Add(sgst).Add(igst)
	roundoff := preRound.Round(0).Sub(preRound)
	grand := preRound.Add(roundoff)

	return Totals{
		Subtotal:   subtotal,
		SGST:       sgst,
		IGST:       igst,
		Roundoff:   roundoff,
		GrandTotal: grand,
		Words:      AmountInWords(grand),
	}
}

// TotalsFromInvoice rebuilds the totals view of a loaded invoice from its
// stored header fields. Nothing is recomputed from the items; the header is
// trusted as written since historical tax rates may differ from the current
// configuration.
func TotalsFromInvoice(inv Invoice) Totals {
	return Totals{
		Subtotal:   inv.Subtotal,
		SGST:       inv.SGST,
		IGST:       inv.IGST,
		Roundoff:   inv.Roundoff,
		GrandTotal: inv.Total,
		Words:      AmountInWords(inv.Total),
	}
}
