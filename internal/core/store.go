package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SavedInvoice identifies a successfully persisted invoice.
type SavedInvoice struct {
	ID            int64
	InvoiceNumber int
}

// SalesRow is one invoice in a date-range sales report.
type SalesRow struct {
	Date          time.Time
	InvoiceNumber int
	CustomerName  string
	Total         decimal.Decimal
}

// ProductSalesRow is one product in the per-product sales rollup.
type ProductSalesRow struct {
	HSN          string
	Name         string
	QuantitySold int64
	TotalSales   decimal.Decimal
}

// Store is the persistence port the engine depends on. A concrete store may
// be backed by Postgres or by memory; the engine never sees a connection.
//
// SaveInvoice must be atomic: the invoice number is derived from
// max(invoice_number)+1 inside the same transaction that inserts the header,
// the items (in serial order) and, when the header carries a new mobile, the
// customer record. On failure nothing is visible to later reads and the
// number is not consumed.
type Store interface {
	SaveInvoice(ctx context.Context, inv Invoice, items []InvoiceItem) (SavedInvoice, error)
	InvoiceByNumber(ctx context.Context, number int) (Invoice, []InvoiceItem, error)
	InvoiceByID(ctx context.Context, id int64) (Invoice, []InvoiceItem, error)
	// SearchInvoices matches the query as a substring of the invoice number
	// or the customer name, returning headers ordered by invoice number.
	SearchInvoices(ctx context.Context, query string) ([]Invoice, error)
	MaxInvoiceNumber(ctx context.Context) (int, error)

	// UpsertProductIfAbsent registers a product the first time its HSN is
	// seen. An existing HSN is a benign no-op, never an overwrite.
	UpsertProductIfAbsent(ctx context.Context, p Product) error
	SaveProduct(ctx context.Context, p Product) error
	DeleteProduct(ctx context.Context, hsn string) error
	ProductByHSN(ctx context.Context, hsn string) (Product, error)
	SearchProducts(ctx context.Context, query string) ([]Product, error)

	SaveCustomer(ctx context.Context, c Customer) error
	DeleteCustomer(ctx context.Context, mobile string) error
	CustomerByMobile(ctx context.Context, mobile string) (Customer, error)
	SearchCustomers(ctx context.Context, query string) ([]Customer, error)

	SalesByDateRange(ctx context.Context, from, to time.Time) ([]SalesRow, error)
	ProductSales(ctx context.Context) ([]ProductSalesRow, error)
}
