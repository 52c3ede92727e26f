package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceService composes the ledger, the totals calculator and the store
// into the save and load operations of the billing engine.
type InvoiceService struct {
	store Store
	rates TaxRates
}

func NewInvoiceService(store Store, rates TaxRates) *InvoiceService {
	return &InvoiceService{store: store, rates: rates}
}

// Rates returns the tax rates the service was configured with.
func (s *InvoiceService) Rates() TaxRates { return s.rates }

// AddItem validates and appends a line item to the ledger, then registers
// the product in master data if its HSN is new. An already-known HSN is left
// untouched; master-data edits go through the MasterDataService. When the
// product registration fails the ledger keeps the item and the store error
// is returned alongside it.
func (s *InvoiceService) AddItem(ctx context.Context, ledger *Ledger, hsn, description string, price decimal.Decimal, quantity int) (InvoiceItem, error) {
	item, err := ledger.AddItem(hsn, description, price, quantity)
	if err != nil {
		return InvoiceItem{}, err
	}

	err = s.store.UpsertProductIfAbsent(ctx, Product{
		HSN:   hsn,
		Name:  description,
		Price: price,
	})
	return item, err
}

// Totals recomputes the derived amounts for the current ledger state.
func (s *InvoiceService) Totals(ledger *Ledger) Totals {
	return ComputeTotals(ledger.Snapshot(), s.rates)
}

// Save persists the invoice as one atomic unit of work: the invoice number
// is assigned inside the transaction, the header and items are inserted, and
// a customer record is created when the mobile is present and new. An empty
// ledger is rejected before the store is touched. Every item's HSN is
// registered in master data first, so a ledger restored or rebuilt outside
// AddItem still ends up with a products row per sold item. On success the
// ledger is cleared; on failure it is left intact and no partial state is
// visible.
func (s *InvoiceService) Save(ctx context.Context, header InvoiceHeader, ledger *Ledger) (SavedInvoice, error) {
	snap := ledger.Snapshot()
	if len(snap.Items) == 0 {
		return SavedInvoice{}, &ValidationError{Field: "items", Reason: "no products added to the invoice"}
	}

	for _, it := range snap.Items {
		err := s.store.UpsertProductIfAbsent(ctx, Product{
			HSN:   it.HSN,
			Name:  it.Description,
			Price: it.Price,
		})
		if err != nil {
			return SavedInvoice{}, err
		}
	}

	if header.Date.IsZero() {
		header.Date = time.Now()
	}
	if header.BillType == "" {
		header.BillType = BillTypeCash
	}

	totals := ComputeTotals(snap, s.rates)
	inv := Invoice{
		Date:            header.Date,
		CustomerName:    header.CustomerName,
		CustomerMobile:  header.CustomerMobile,
		CustomerPlace:   header.CustomerPlace,
		CustomerAddress: header.CustomerAddress,
		BillType:        header.BillType,
		Subtotal:        totals.Subtotal,
		SGST:            totals.SGST,
		IGST:            totals.IGST,
		Roundoff:        totals.Roundoff,
		Total:           totals.GrandTotal,
		PDFPath:         header.PDFPath,
	}

	saved, err := s.store.SaveInvoice(ctx, inv, snap.Items)
	if err != nil {
		return SavedInvoice{}, err
	}

	ledger.Clear()
	return saved, nil
}

// Load reconstructs an invoice and its items (ordered by serial number) by
// invoice number. Stored totals are trusted as written rather than
// recomputed, since historical tax rates may differ from the current
// configuration.
func (s *InvoiceService) Load(ctx context.Context, number int) (Invoice, []InvoiceItem, error) {
	return s.store.InvoiceByNumber(ctx, number)
}

// LoadByID is Load keyed by the storage-assigned row id.
func (s *InvoiceService) LoadByID(ctx context.Context, id int64) (Invoice, []InvoiceItem, error) {
	return s.store.InvoiceByID(ctx, id)
}

// Search matches the query as a substring of the invoice number or the
// customer name and returns the matching headers ordered by number. An
// empty query lists all invoices.
func (s *InvoiceService) Search(ctx context.Context, query string) ([]Invoice, error) {
	return s.store.SearchInvoices(ctx, query)
}
