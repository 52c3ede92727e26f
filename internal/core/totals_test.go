package core_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-engine/internal/core"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type line struct {
	hsn, desc, price string
	qty              int
}

func snapshotOf(t *testing.T, lines ...line) core.LedgerSnapshot {
	t.Helper()
	ledger := core.NewLedger()
	for _, l := range lines {
		_, err := ledger.AddItem(l.hsn, l.desc, dec(l.price), l.qty)
		require.NoError(t, err)
	}
	return ledger.Snapshot()
}

func TestComputeTotals_TaxComponentsRoundedBeforeSumming(t *testing.T) {
	// Subtotal 298.50 at 9% gives 26.865 per component, which must round
	// half away from zero to 26.87 before the components are summed.
	snap := snapshotOf(t, line{"1001", "Widget", "49.75", 6})
	totals := core.ComputeTotals(snap, core.DefaultTaxRates())

	assert.True(t, totals.Subtotal.Equal(dec("298.50")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.SGST.Equal(dec("26.87")), "sgst = %s", totals.SGST)
	assert.True(t, totals.IGST.Equal(dec("26.87")), "igst = %s", totals.IGST)
	assert.True(t, totals.Roundoff.Equal(dec("-0.24")), "roundoff = %s", totals.Roundoff)
	assert.True(t, totals.GrandTotal.Equal(dec("352")), "grand = %s", totals.GrandTotal)
	assert.Equal(t, "Three Hundred Fifty Two Rupees Only", totals.Words)
}

func TestComputeTotals_GrandTotalIsWholeRupees(t *testing.T) {
	cases := []line{
		{"2001", "Bolt", "3.33", 7},
		{"2002", "Nut", "19.99", 13},
		{"2003", "Washer", "0.45", 211},
		{"2004", "Screw", "123.45", 1},
	}
	for _, c := range cases {
		totals := core.ComputeTotals(snapshotOf(t, c), core.DefaultTaxRates())

		assert.True(t, totals.GrandTotal.Equal(totals.GrandTotal.Round(0)),
			"grand total %s is not whole", totals.GrandTotal)
		assert.True(t, totals.Roundoff.Abs().LessThanOrEqual(dec("0.5")),
			"roundoff %s out of range", totals.Roundoff)

		recombined := totals.Subtotal.Add(totals.SGST).Add(totals.IGST).Add(totals.Roundoff)
		assert.True(t, recombined.Equal(totals.GrandTotal),
			"components %s do not sum to grand total %s", recombined, totals.GrandTotal)
	}
}

func TestComputeTotals_EmptyLedger(t *testing.T) {
	totals := core.ComputeTotals(core.NewLedger().Snapshot(), core.DefaultTaxRates())

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.SGST.IsZero())
	assert.True(t, totals.IGST.IsZero())
	assert.True(t, totals.Roundoff.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
	assert.Equal(t, "Zero Rupees Only", totals.Words)
}

func TestComputeTotals_DiscountReducesTaxBase(t *testing.T) {
	ledger := core.NewLedger()
	_, err := ledger.AddItem("3001", "Cable", dec("100"), 2)
	require.NoError(t, err)
	require.NoError(t, ledger.ApplyDiscount(dec("50")))

	totals := core.ComputeTotals(ledger.Snapshot(), core.DefaultTaxRates())

	assert.True(t, totals.Subtotal.Equal(dec("150")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.SGST.Equal(dec("13.50")), "sgst = %s", totals.SGST)
	assert.True(t, totals.IGST.Equal(dec("13.50")), "igst = %s", totals.IGST)
	assert.True(t, totals.GrandTotal.Equal(dec("177")), "grand = %s", totals.GrandTotal)
}

func TestComputeTotals_CustomRates(t *testing.T) {
	snap := snapshotOf(t, line{"4001", "Pipe", "200", 1})
	rates := core.TaxRates{SGST: dec("2.5"), IGST: dec("2.5")}

	totals := core.ComputeTotals(snap, rates)

	assert.True(t, totals.SGST.Equal(dec("5")), "sgst = %s", totals.SGST)
	assert.True(t, totals.IGST.Equal(dec("5")), "igst = %s", totals.IGST)
	assert.True(t, totals.GrandTotal.Equal(dec("210")), "grand = %s", totals.GrandTotal)
}

func TestTotalsFromInvoice_TrustsStoredHeader(t *testing.T) {
	inv := core.Invoice{
		Subtotal: dec("100.00"),
		SGST:     dec("5.00"),
		IGST:     dec("5.00"),
		Roundoff: dec("0.00"),
		Total:    dec("110.00"),
	}

	totals := core.TotalsFromInvoice(inv)

	assert.True(t, totals.Subtotal.Equal(inv.Subtotal))
	assert.True(t, totals.GrandTotal.Equal(inv.Total))
	assert.Equal(t, "One Hundred Ten Rupees Only", totals.Words)
}
