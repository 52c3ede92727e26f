package render

import "billing-engine/internal/core"

// CompanyInfo is the issuer block printed on documents.
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
	Website string
	GSTIN   string
}

// BankInfo is the settlement details block printed on documents.
type BankInfo struct {
	Name    string
	Account string
	IFSC    string
	Branch  string
}

// Document is the finalized (header, items, totals) snapshot handed to the
// renderers. The engine supplies the data; the renderer owns the layout.
type Document struct {
	Company CompanyInfo
	Bank    BankInfo
	Invoice core.Invoice
	Items   []core.InvoiceItem
	Totals  core.Totals
	Rates   core.TaxRates
}

// NewDocument builds a render snapshot from a loaded invoice. Totals come
// from the stored header fields, not from recomputation.
func NewDocument(company CompanyInfo, bank BankInfo, inv core.Invoice, items []core.InvoiceItem, rates core.TaxRates) Document {
	return Document{
		Company: company,
		Bank:    bank,
		Invoice: inv,
		Items:   items,
		Totals:  core.TotalsFromInvoice(inv),
		Rates:   rates,
	}
}
