package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type BillType string

const (
	BillTypeCash   BillType = "Cash"
	BillTypeCredit BillType = "Credit"
)

// Invoice is a persisted invoice header. Monetary fields carry two-decimal
// fixed-point semantics and satisfy Total == Subtotal + SGST + IGST + Roundoff.
type Invoice struct {
	ID              int64           `json:"id"`
	InvoiceNumber   int             `json:"invoice_number"`
	Date            time.Time       `json:"date"`
	CustomerName    string          `json:"customer_name"`
	CustomerMobile  string          `json:"customer_mobile"`
	CustomerPlace   string          `json:"customer_place"`
	CustomerAddress string          `json:"customer_address"`
	BillType        BillType        `json:"bill_type"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	SGST            decimal.Decimal `json:"sgst"`
	IGST            decimal.Decimal `json:"igst"`
	Roundoff        decimal.Decimal `json:"roundoff"`
	Total           decimal.Decimal `json:"total"`
	PDFPath         string          `json:"pdf_path,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// InvoiceItem is one line of an invoice. SNo is 1-based and dense within
// its invoice; Total = Price × Quantity rounded to two decimals.
type InvoiceItem struct {
	ID          int64           `json:"id"`
	InvoiceID   int64           `json:"invoice_id"`
	SNo         int             `json:"sno"`
	HSN         string          `json:"hsn"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

// Product is master data keyed by its unique HSN code.
type Product struct {
	ID          int64           `json:"id"`
	HSN         string          `json:"hsn"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	LastUpdated time.Time       `json:"last_updated"`
}

// Customer is master data keyed by its unique mobile number.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Mobile    string    `json:"mobile"`
	Place     string    `json:"place"`
	Address   string    `json:"address"`
	GSTIN     string    `json:"gstin"`
	CreatedAt time.Time `json:"created_at"`
}

// InvoiceHeader carries the operator-entered header fields of an invoice
// in progress. Totals and the invoice number are derived at save time.
type InvoiceHeader struct {
	Date            time.Time `json:"date"`
	CustomerName    string    `json:"customer_name"`
	CustomerMobile  string    `json:"customer_mobile"`
	CustomerPlace   string    `json:"customer_place"`
	CustomerAddress string    `json:"customer_address"`
	BillType        BillType  `json:"bill_type"`
	PDFPath         string    `json:"pdf_path,omitempty"`
}
