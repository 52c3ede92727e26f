package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-engine/internal/core"
	"billing-engine/internal/store/memory"
)

func saveInvoiceOn(t *testing.T, svc *core.InvoiceService, date time.Time, customer, hsn, price string, qty int) core.SavedInvoice {
	t.Helper()
	ctx := context.Background()
	ledger := core.NewLedger()
	_, err := svc.AddItem(ctx, ledger, hsn, "Item "+hsn, dec(price), qty)
	require.NoError(t, err)
	saved, err := svc.Save(ctx, core.InvoiceHeader{Date: date, CustomerName: customer}, ledger)
	require.NoError(t, err)
	return saved
}

func TestReportService_SalesByDateRangeIsInclusive(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := core.NewInvoiceService(store, core.DefaultTaxRates())
	reports := core.NewReportService(store)

	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	saveInvoiceOn(t, svc, day(1), "Before", "1001", "100", 1)
	saveInvoiceOn(t, svc, day(2), "Start", "1001", "100", 1)
	saveInvoiceOn(t, svc, day(5), "End", "1001", "100", 2)
	saveInvoiceOn(t, svc, day(6), "After", "1001", "100", 1)

	report, err := reports.SalesByDateRange(ctx, day(2), day(5))
	require.NoError(t, err)

	require.Len(t, report.Rows, 2)
	assert.Equal(t, "Start", report.Rows[0].CustomerName)
	assert.Equal(t, "End", report.Rows[1].CustomerName)
	assert.Equal(t, 2, report.InvoiceCount)
	assert.True(t, report.TotalSales.Equal(dec("354")), "total = %s", report.TotalSales)
}

func TestReportService_EmptyRangeIsNotAnError(t *testing.T) {
	ctx := context.Background()
	reports := core.NewReportService(memory.NewStore())

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	report, err := reports.SalesByDateRange(ctx, from, from.AddDate(0, 1, 0))

	require.NoError(t, err)
	assert.Empty(t, report.Rows)
	assert.Equal(t, 0, report.InvoiceCount)
	assert.True(t, report.TotalSales.IsZero())
}

func TestReportService_ReversedRangeRejected(t *testing.T) {
	ctx := context.Background()
	reports := core.NewReportService(memory.NewStore())

	from := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := reports.SalesByDateRange(ctx, from, from.AddDate(0, 0, -1))

	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestReportService_ProductSalesRollup(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := core.NewInvoiceService(store, core.DefaultTaxRates())
	reports := core.NewReportService(store)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	saveInvoiceOn(t, svc, day, "A", "1001", "50", 2)
	saveInvoiceOn(t, svc, day, "B", "1001", "50", 3)
	saveInvoiceOn(t, svc, day, "C", "2002", "10", 1)

	report, err := reports.ProductSales(ctx)
	require.NoError(t, err)

	require.Len(t, report.Rows, 2)
	assert.Equal(t, "1001", report.Rows[0].HSN, "rows must be ordered by sales descending")
	assert.Equal(t, int64(5), report.Rows[0].QuantitySold)
	assert.True(t, report.Rows[0].TotalSales.Equal(dec("250")))
	assert.Equal(t, "2002", report.Rows[1].HSN)
	assert.Equal(t, int64(6), report.TotalQuantity)
	assert.True(t, report.TotalSales.Equal(dec("260")))
}
