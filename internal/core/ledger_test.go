package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-engine/internal/core"
)

func TestLedger_AddItemAssignsSerialAndTotal(t *testing.T) {
	ledger := core.NewLedger()

	first, err := ledger.AddItem("1001", "Widget", dec("10.555"), 3)
	require.NoError(t, err)
	second, err := ledger.AddItem("1002", "Gadget", dec("5"), 2)
	require.NoError(t, err)

	assert.Equal(t, 1, first.SNo)
	assert.Equal(t, 2, second.SNo)
	assert.True(t, first.Total.Equal(dec("31.67")), "line total = %s", first.Total)
	assert.True(t, second.Total.Equal(dec("10")), "line total = %s", second.Total)
}

func TestLedger_AddItemValidation(t *testing.T) {
	ledger := core.NewLedger()

	cases := []struct {
		name  string
		hsn   string
		desc  string
		price string
		qty   int
		field string
	}{
		{"empty hsn", "", "Widget", "10", 1, "hsn"},
		{"empty description", "1001", "", "10", 1, "description"},
		{"zero price", "1001", "Widget", "0", 1, "price"},
		{"negative price", "1001", "Widget", "-1", 1, "price"},
		{"zero quantity", "1001", "Widget", "10", 0, "quantity"},
		{"negative quantity", "1001", "Widget", "10", -2, "quantity"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ledger.AddItem(c.hsn, c.desc, dec(c.price), c.qty)
			var verr *core.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, c.field, verr.Field)
		})
	}
	assert.Equal(t, 0, ledger.Len(), "rejected items must not be stored")
}

func TestLedger_EditItemRecomputesTotal(t *testing.T) {
	ledger := core.NewLedger()
	_, err := ledger.AddItem("1001", "Widget", dec("10"), 1)
	require.NoError(t, err)

	edited, err := ledger.EditItem(1, "1001", "Widget XL", dec("12.50"), 4)
	require.NoError(t, err)

	assert.Equal(t, 1, edited.SNo)
	assert.Equal(t, "Widget XL", edited.Description)
	assert.True(t, edited.Total.Equal(dec("50")), "total = %s", edited.Total)
}

func TestLedger_EditItemUnknownSerial(t *testing.T) {
	ledger := core.NewLedger()

	_, err := ledger.EditItem(7, "1001", "Widget", dec("10"), 1)

	var nf *core.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "7", nf.Key)
}

func TestLedger_RemoveItemsRenumbersDensely(t *testing.T) {
	ledger := core.NewLedger()
	for _, desc := range []string{"A", "B", "C", "D"} {
		_, err := ledger.AddItem("hsn-"+desc, desc, dec("1"), 1)
		require.NoError(t, err)
	}

	require.NoError(t, ledger.RemoveItems([]int{1, 3}))

	snap := ledger.Snapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, 1, snap.Items[0].SNo)
	assert.Equal(t, "B", snap.Items[0].Description)
	assert.Equal(t, 2, snap.Items[1].SNo)
	assert.Equal(t, "D", snap.Items[1].Description)
}

func TestLedger_RemoveItemsEmptySelection(t *testing.T) {
	ledger := core.NewLedger()

	err := ledger.RemoveItems(nil)

	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "selection", verr.Field)
}

func TestLedger_RemoveItemsUnknownSerial(t *testing.T) {
	ledger := core.NewLedger()
	_, err := ledger.AddItem("1001", "Widget", dec("1"), 1)
	require.NoError(t, err)

	err = ledger.RemoveItems([]int{2})

	var nf *core.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, 1, ledger.Len(), "a failed removal must not change the ledger")
}

func TestLedger_DiscountIsCumulativeAndCapped(t *testing.T) {
	ledger := core.NewLedger()
	_, err := ledger.AddItem("1001", "Widget", dec("100"), 1)
	require.NoError(t, err)

	require.NoError(t, ledger.ApplyDiscount(dec("40")))
	require.NoError(t, ledger.ApplyDiscount(dec("60")))

	err = ledger.ApplyDiscount(dec("0.01"))
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)

	snap := ledger.Snapshot()
	assert.True(t, snap.Discount.Equal(dec("100")), "discount = %s", snap.Discount)
}

func TestLedger_NegativeDiscountRejected(t *testing.T) {
	ledger := core.NewLedger()

	err := ledger.ApplyDiscount(dec("-1"))

	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "discount", verr.Field)
}

func TestLedger_ClearResetsItemsAndDiscount(t *testing.T) {
	ledger := core.NewLedger()
	_, err := ledger.AddItem("1001", "Widget", dec("100"), 1)
	require.NoError(t, err)
	require.NoError(t, ledger.ApplyDiscount(dec("10")))

	ledger.Clear()

	snap := ledger.Snapshot()
	assert.Empty(t, snap.Items)
	assert.True(t, snap.Discount.IsZero())
}

func TestRestoreLedger_RenumbersAndDropsIDs(t *testing.T) {
	items := []core.InvoiceItem{
		{ID: 10, InvoiceID: 3, SNo: 4, HSN: "1001", Description: "Widget", Price: dec("10"), Quantity: 2, Total: dec("20")},
		{ID: 11, InvoiceID: 3, SNo: 9, HSN: "1002", Description: "Gadget", Price: dec("5"), Quantity: 1, Total: dec("5")},
	}

	ledger := core.RestoreLedger(items)

	snap := ledger.Snapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, 1, snap.Items[0].SNo)
	assert.Equal(t, 2, snap.Items[1].SNo)
	assert.Zero(t, snap.Items[0].ID)
	assert.Zero(t, snap.Items[0].InvoiceID)
	assert.True(t, snap.Items[0].Total.Equal(dec("20")))
}
