package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"billing-engine/internal/core"
)

// Store is an in-memory core.Store with the same transactional semantics
// as the Postgres store: SaveInvoice either applies everything or nothing.
// It backs the engine's unit tests and offline runs.
type Store struct {
	mu sync.Mutex

	// FailSave, when non-nil, makes the next SaveInvoice calls fail with a
	// PersistenceError before any state changes, mirroring a rolled-back
	// transaction.
	FailSave error

	invoices       []core.Invoice
	itemsByInvoice map[int64][]core.InvoiceItem
	products       map[string]core.Product
	customers      map[string]core.Customer

	nextInvoiceID  int64
	nextItemID     int64
	nextProductID  int64
	nextCustomerID int64
}

func NewStore() *Store {
	return &Store{
		itemsByInvoice: make(map[int64][]core.InvoiceItem),
		products:       make(map[string]core.Product),
		customers:      make(map[string]core.Customer),
	}
}

func (s *Store) SaveInvoice(ctx context.Context, inv core.Invoice, items []core.InvoiceItem) (core.SavedInvoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailSave != nil {
		return core.SavedInvoice{}, &core.PersistenceError{Op: "save invoice", Err: s.FailSave}
	}

	number := s.maxInvoiceNumberLocked() + 1
	s.nextInvoiceID++
	inv.ID = s.nextInvoiceID
	inv.InvoiceNumber = number
	inv.CreatedAt = time.Now()
	s.invoices = append(s.invoices, inv)

	stored := make([]core.InvoiceItem, len(items))
	for i, it := range items {
		s.nextItemID++
		it.ID = s.nextItemID
		it.InvoiceID = inv.ID
		stored[i] = it
	}
	s.itemsByInvoice[inv.ID] = stored

	if inv.CustomerMobile != "" {
		if _, ok := s.customers[inv.CustomerMobile]; !ok {
			s.nextCustomerID++
			s.customers[inv.CustomerMobile] = core.Customer{
				ID:        s.nextCustomerID,
				Name:      inv.CustomerName,
				Mobile:    inv.CustomerMobile,
				Place:     inv.CustomerPlace,
				Address:   inv.CustomerAddress,
				CreatedAt: time.Now(),
			}
		}
	}

	return core.SavedInvoice{ID: inv.ID, InvoiceNumber: number}, nil
}

func (s *Store) InvoiceByNumber(ctx context.Context, number int) (core.Invoice, []core.InvoiceItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, inv := range s.invoices {
		if inv.InvoiceNumber == number {
			return inv, s.copyItemsLocked(inv.ID), nil
		}
	}
	return core.Invoice{}, nil, &core.NotFoundError{Entity: "invoice", Key: strconv.Itoa(number)}
}

func (s *Store) InvoiceByID(ctx context.Context, id int64) (core.Invoice, []core.InvoiceItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, inv := range s.invoices {
		if inv.ID == id {
			return inv, s.copyItemsLocked(inv.ID), nil
		}
	}
	return core.Invoice{}, nil, &core.NotFoundError{Entity: "invoice", Key: strconv.FormatInt(id, 10)}
}

func (s *Store) copyItemsLocked(invoiceID int64) []core.InvoiceItem {
	stored := s.itemsByInvoice[invoiceID]
	items := make([]core.InvoiceItem, len(stored))
	copy(items, stored)
	sort.Slice(items, func(i, j int) bool { return items[i].SNo < items[j].SNo })
	return items
}

func (s *Store) SearchInvoices(ctx context.Context, query string) ([]core.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	var invoices []core.Invoice
	for _, inv := range s.invoices {
		number := strconv.Itoa(inv.InvoiceNumber)
		if strings.Contains(number, q) || strings.Contains(strings.ToLower(inv.CustomerName), q) {
			invoices = append(invoices, inv)
		}
	}
	sort.Slice(invoices, func(i, j int) bool { return invoices[i].InvoiceNumber < invoices[j].InvoiceNumber })
	return invoices, nil
}

func (s *Store) MaxInvoiceNumber(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxInvoiceNumberLocked(), nil
}

func (s *Store) maxInvoiceNumberLocked() int {
	max := 0
	for _, inv := range s.invoices {
		if inv.InvoiceNumber > max {
			max = inv.InvoiceNumber
		}
	}
	return max
}

func (s *Store) UpsertProductIfAbsent(ctx context.Context, p core.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.HSN]; ok {
		return nil
	}
	s.nextProductID++
	p.ID = s.nextProductID
	p.LastUpdated = time.Now()
	s.products[p.HSN] = p
	return nil
}

func (s *Store) SaveProduct(ctx context.Context, p core.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.products[p.HSN]; ok {
		p.ID = existing.ID
	} else {
		s.nextProductID++
		p.ID = s.nextProductID
	}
	p.LastUpdated = time.Now()
	s.products[p.HSN] = p
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, hsn string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[hsn]; !ok {
		return &core.NotFoundError{Entity: "product", Key: hsn}
	}
	delete(s.products, hsn)
	return nil
}

func (s *Store) ProductByHSN(ctx context.Context, hsn string) (core.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[hsn]
	if !ok {
		return core.Product{}, &core.NotFoundError{Entity: "product", Key: hsn}
	}
	return p, nil
}

func (s *Store) SearchProducts(ctx context.Context, query string) ([]core.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	var products []core.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.HSN), q) || strings.Contains(strings.ToLower(p.Name), q) {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].HSN < products[j].HSN })
	return products, nil
}

func (s *Store) SaveCustomer(ctx context.Context, c core.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.customers[c.Mobile]; ok {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	} else {
		s.nextCustomerID++
		c.ID = s.nextCustomerID
		c.CreatedAt = time.Now()
	}
	s.customers[c.Mobile] = c
	return nil
}

func (s *Store) DeleteCustomer(ctx context.Context, mobile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[mobile]; !ok {
		return &core.NotFoundError{Entity: "customer", Key: mobile}
	}
	delete(s.customers, mobile)
	return nil
}

func (s *Store) CustomerByMobile(ctx context.Context, mobile string) (core.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[mobile]
	if !ok {
		return core.Customer{}, &core.NotFoundError{Entity: "customer", Key: mobile}
	}
	return c, nil
}

func (s *Store) SearchCustomers(ctx context.Context, query string) ([]core.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	var customers []core.Customer
	for _, c := range s.customers {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(c.Mobile, q) {
			customers = append(customers, c)
		}
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].Name < customers[j].Name })
	return customers, nil
}

func (s *Store) SalesByDateRange(ctx context.Context, from, to time.Time) ([]core.SalesRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fromDay := truncateToDay(from)
	toDay := truncateToDay(to)

	var sales []core.SalesRow
	for _, inv := range s.invoices {
		day := truncateToDay(inv.Date)
		if day.Before(fromDay) || day.After(toDay) {
			continue
		}
		sales = append(sales, core.SalesRow{
			Date:          inv.Date,
			InvoiceNumber: inv.InvoiceNumber,
			CustomerName:  inv.CustomerName,
			Total:         inv.Total,
		})
	}
	sort.Slice(sales, func(i, j int) bool {
		if !sales[i].Date.Equal(sales[j].Date) {
			return sales[i].Date.Before(sales[j].Date)
		}
		return sales[i].InvoiceNumber < sales[j].InvoiceNumber
	})
	return sales, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *Store) ProductSales(ctx context.Context) ([]core.ProductSalesRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byHSN := make(map[string]*core.ProductSalesRow)
	for _, items := range s.itemsByInvoice {
		for _, it := range items {
			p, ok := s.products[it.HSN]
			if !ok {
				continue
			}
			row, ok := byHSN[it.HSN]
			if !ok {
				row = &core.ProductSalesRow{HSN: it.HSN, Name: p.Name}
				byHSN[it.HSN] = row
			}
			row.QuantitySold += int64(it.Quantity)
			row.TotalSales = row.TotalSales.Add(it.Total)
		}
	}

	sales := make([]core.ProductSalesRow, 0, len(byHSN))
	for _, row := range byHSN {
		sales = append(sales, *row)
	}
	sort.Slice(sales, func(i, j int) bool {
		if !sales[i].TotalSales.Equal(sales[j].TotalSales) {
			return sales[i].TotalSales.GreaterThan(sales[j].TotalSales)
		}
		return sales[i].HSN < sales[j].HSN
	})
	return sales, nil
}
