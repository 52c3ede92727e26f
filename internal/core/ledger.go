package core

import (
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
)

// Ledger is the ordered, mutable collection of line items for the invoice
// currently being composed. Exactly one ledger is live at a time; the mutex
// exists so the auto-saver can snapshot it from its own goroutine without
// reading a torn item sequence.
type Ledger struct {
	mu       sync.Mutex
	items    []InvoiceItem
	discount decimal.Decimal
}

// LedgerSnapshot is a read-only copy of the ledger state, suitable for
// totals computation, persistence and auto-save.
type LedgerSnapshot struct {
	Items    []InvoiceItem   `json:"items"`
	Discount decimal.Decimal `json:"discount"`
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// RestoreLedger rebuilds a ledger from previously persisted items, for
// editing or reprinting. Serial numbers are reassigned densely from 1 and
// storage-assigned ids are dropped; re-saving creates a new invoice since
// invoice numbers are immutable once assigned.
func RestoreLedger(items []InvoiceItem) *Ledger {
	l := NewLedger()
	for i, it := range items {
		l.items = append(l.items, InvoiceItem{
			SNo:         i + 1,
			HSN:         it.HSN,
			Description: it.Description,
			Price:       it.Price,
			Quantity:    it.Quantity,
			Total:       it.Total,
		})
	}
	return l
}

func lineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

func validateItem(hsn, description string, price decimal.Decimal, quantity int) error {
	if hsn == "" {
		return &ValidationError{Field: "hsn", Reason: "must not be empty"}
	}
	if description == "" {
		return &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if !price.IsPositive() {
		return &ValidationError{Field: "price", Reason: "must be greater than zero"}
	}
	if quantity < 1 {
		return &ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	return nil
}

// AddItem validates and appends a line item with the next serial number.
// The line total is Price × Quantity rounded to two decimals.
func (l *Ledger) AddItem(hsn, description string, price decimal.Decimal, quantity int) (InvoiceItem, error) {
	if err := validateItem(hsn, description, price, quantity); err != nil {
		return InvoiceItem{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	item := InvoiceItem{
		SNo:         len(l.items) + 1,
		HSN:         hsn,
		Description: description,
		Price:       price,
		Quantity:    quantity,
		Total:       lineTotal(price, quantity),
	}
	l.items = append(l.items, item)
	return item, nil
}

// EditItem revalidates and replaces the fields of the item with the given
// serial number. The serial number itself is unchanged.
func (l *Ledger) EditItem(sno int, hsn, description string, price decimal.Decimal, quantity int) (InvoiceItem, error) {
	if err := validateItem(hsn, description, price, quantity); err != nil {
		return InvoiceItem{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].SNo != sno {
			continue
		}
		l.items[i].HSN = hsn
		l.items[i].Description = description
		l.items[i].Price = price
		l.items[i].Quantity = quantity
		l.items[i].Total = lineTotal(price, quantity)
		return l.items[i], nil
	}
	return InvoiceItem{}, &NotFoundError{Entity: "line item", Key: strconv.Itoa(sno)}
}

// RemoveItems deletes the selected serial numbers and renumbers the
// remaining items densely from 1, preserving their relative order.
func (l *Ledger) RemoveItems(snos []int) error {
	if len(snos) == 0 {
		return &ValidationError{Field: "selection", Reason: "no items selected"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	selected := make(map[int]bool, len(snos))
	for _, sno := range snos {
		selected[sno] = true
	}
	for sno := range selected {
		if sno < 1 || sno > len(l.items) {
			return &NotFoundError{Entity: "line item", Key: strconv.Itoa(sno)}
		}
	}

	kept := l.items[:0]
	for _, it := range l.items {
		if selected[it.SNo] {
			continue
		}
		it.SNo = len(kept) + 1
		kept = append(kept, it)
	}
	l.items = kept
	return nil
}

// ApplyDiscount reduces the subtotal before tax computation. The discount
// is cumulative across calls and may never exceed the current subtotal.
func (l *Ledger) ApplyDiscount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return &ValidationError{Field: "discount", Reason: "must not be negative"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	subtotal := decimal.Zero
	for _, it := range l.items {
		subtotal = subtotal.Add(it.Total)
	}
	subtotal = subtotal.Sub(l.discount)

	if amount.GreaterThan(subtotal) {
		return &ValidationError{Field: "discount", Reason: "cannot be greater than subtotal"}
	}
	l.discount = l.discount.Add(amount)
	return nil
}

// Clear atomically empties the ledger and resets the discount.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	l.discount = decimal.Zero
}

// Len reports the number of line items.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Snapshot returns a read-only copy of the current ledger state.
func (l *Ledger) Snapshot() LedgerSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]InvoiceItem, len(l.items))
	copy(items, l.items)
	return LedgerSnapshot{Items: items, Discount: l.discount}
}
