package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesReport summarizes the invoices whose date lies within an inclusive
// range. A period with no sales yields a report with zero rows, not an
// error.
type SalesReport struct {
	From         time.Time
	To           time.Time
	Rows         []SalesRow
	InvoiceCount int
	TotalSales   decimal.Decimal
}

// ProductSalesReport rolls up sold quantities and amounts per product,
// ordered by total sales descending.
type ProductSalesReport struct {
	Rows          []ProductSalesRow
	TotalQuantity int64
	TotalSales    decimal.Decimal
}

// ReportService provides read-only reporting queries over persisted
// invoices and items, independent of the live ledger.
type ReportService struct {
	store Store
}

func NewReportService(store Store) *ReportService {
	return &ReportService{store: store}
}

// SalesByDateRange returns the per-invoice sales rows for the inclusive
// date range, ordered by date, plus the aggregate count and sum.
func (s *ReportService) SalesByDateRange(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	if to.Before(from) {
		return nil, &ValidationError{Field: "date range", Reason: "to date is before from date"}
	}

	rows, err := s.store.SalesByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{From: from, To: to, Rows: rows, InvoiceCount: len(rows)}
	for _, r := range rows {
		report.TotalSales = report.TotalSales.Add(r.Total)
	}
	return report, nil
}

// ProductSales returns the per-product rollup with aggregate quantity and
// sales totals.
func (s *ReportService) ProductSales(ctx context.Context) (*ProductSalesReport, error) {
	rows, err := s.store.ProductSales(ctx)
	if err != nil {
		return nil, err
	}

	report := &ProductSalesReport{Rows: rows}
	for _, r := range rows {
		report.TotalQuantity += r.QuantitySold
		report.TotalSales = report.TotalSales.Add(r.TotalSales)
	}
	return report, nil
}
