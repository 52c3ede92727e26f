package render_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"billing-engine/internal/core"
	"billing-engine/internal/render"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleDocument() render.Document {
	inv := sampleInvoice()
	items := []core.InvoiceItem{
		{SNo: 1, HSN: "1001", Description: "Widget", Price: dec("49.75"), Quantity: 6, Total: dec("298.50")},
	}
	company := render.CompanyInfo{Name: "Sri Vari Electricals", GSTIN: "33ABCDE1234F1Z5"}
	bank := render.BankInfo{Name: "State Bank", Account: "1234567890", IFSC: "SBIN0001234"}
	return render.NewDocument(company, bank, inv, items, core.DefaultTaxRates())
}

func TestWriteExcel_SheetsAndValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.xlsx")
	require.NoError(t, render.WriteExcel(sampleDocument(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Products", "Totals", "Invoice Info"}, f.GetSheetList())

	desc, err := f.GetCellValue("Products", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Widget", desc)

	total, err := f.GetCellValue("Products", "F2")
	require.NoError(t, err)
	assert.Equal(t, "298.5", total)

	grandHeader, err := f.GetCellValue("Totals", "E1")
	require.NoError(t, err)
	assert.Equal(t, "Grand Total", grandHeader)

	grand, err := f.GetCellValue("Totals", "E2")
	require.NoError(t, err)
	assert.Equal(t, "352", grand)

	date, err := f.GetCellValue("Invoice Info", "B2")
	require.NoError(t, err)
	assert.Equal(t, "15-03-2024", date)

	words, err := f.GetCellValue("Invoice Info", "H2")
	require.NoError(t, err)
	assert.Equal(t, "Three Hundred Fifty Two Rupees Only", words)
}

func TestWritePDF_ProducesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.pdf")
	require.NoError(t, render.WritePDF(sampleDocument(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
