package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"billing-engine/internal/core"
)

// Store implements core.Store on Postgres. All monetary columns are
// NUMERIC(12,2) and scan directly into decimal.Decimal.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// SaveInvoice persists the header, its items and the conditional customer
// record in one transaction. The invoice number is derived from
// max(invoice_number)+1 inside the same transaction, so a rolled-back save
// never consumes a number.
func (s *Store) SaveInvoice(ctx context.Context, inv core.Invoice, items []core.InvoiceItem) (core.SavedInvoice, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return core.SavedInvoice{}, &core.PersistenceError{Op: "begin save transaction", Err: err}
	}
	defer tx.Rollback(ctx)

	var number int
	err = tx.QueryRow(ctx, "SELECT COALESCE(MAX(invoice_number), 0) + 1 FROM invoices").Scan(&number)
	if err != nil {
		return core.SavedInvoice{}, &core.PersistenceError{Op: "derive invoice number", Err: err}
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (invoice_number, date, customer_name, customer_mobile,
			customer_place, customer_address, bill_type, subtotal, sgst, igst, roundoff, total, pdf_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, number, inv.Date, inv.CustomerName, inv.CustomerMobile, inv.CustomerPlace,
		inv.CustomerAddress, string(inv.BillType), inv.Subtotal, inv.SGST, inv.IGST,
		inv.Roundoff, inv.Total, inv.PDFPath).Scan(&id)
	if err != nil {
		return core.SavedInvoice{}, &core.PersistenceError{Op: "insert invoice header", Err: err}
	}

	for _, it := range items {
		_, err = tx.Exec(ctx, `
			INSERT INTO invoice_items (invoice_id, sno, hsn, description, price, quantity, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, id, it.SNo, it.HSN, it.Description, it.Price, it.Quantity, it.Total)
		if err != nil {
			return core.SavedInvoice{}, &core.PersistenceError{Op: fmt.Sprintf("insert invoice item %d", it.SNo), Err: err}
		}
	}

	if inv.CustomerMobile != "" {
		_, err = tx.Exec(ctx, `
			INSERT INTO customers (name, mobile, place, address)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (mobile) DO NOTHING
		`, inv.CustomerName, inv.CustomerMobile, inv.CustomerPlace, inv.CustomerAddress)
		if err != nil {
			return core.SavedInvoice{}, &core.PersistenceError{Op: "insert customer", Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return core.SavedInvoice{}, &core.PersistenceError{Op: "commit invoice", Err: err}
	}
	return core.SavedInvoice{ID: id, InvoiceNumber: number}, nil
}

const invoiceColumns = `id, invoice_number, date, customer_name, customer_mobile,
	customer_place, customer_address, bill_type, subtotal, sgst, igst, roundoff, total, pdf_path, created_at`

func (s *Store) InvoiceByNumber(ctx context.Context, number int) (core.Invoice, []core.InvoiceItem, error) {
	return s.loadInvoice(ctx, "invoice_number = $1", strconv.Itoa(number), number)
}

func (s *Store) InvoiceByID(ctx context.Context, id int64) (core.Invoice, []core.InvoiceItem, error) {
	return s.loadInvoice(ctx, "id = $1", strconv.FormatInt(id, 10), id)
}

func (s *Store) loadInvoice(ctx context.Context, where, key string, arg any) (core.Invoice, []core.InvoiceItem, error) {
	var inv core.Invoice
	var billType string
	err := s.pool.QueryRow(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE "+where, arg,
	).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.Date, &inv.CustomerName, &inv.CustomerMobile,
		&inv.CustomerPlace, &inv.CustomerAddress, &billType, &inv.Subtotal, &inv.SGST,
		&inv.IGST, &inv.Roundoff, &inv.Total, &inv.PDFPath, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.Invoice{}, nil, &core.NotFoundError{Entity: "invoice", Key: key}
		}
		return core.Invoice{}, nil, &core.PersistenceError{Op: "load invoice", Err: err}
	}
	inv.BillType = core.BillType(billType)

	rows, err := s.pool.Query(ctx, `
		SELECT id, invoice_id, sno, hsn, description, price, quantity, total
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY sno
	`, inv.ID)
	if err != nil {
		return core.Invoice{}, nil, &core.PersistenceError{Op: "load invoice items", Err: err}
	}
	defer rows.Close()

	var items []core.InvoiceItem
	for rows.Next() {
		var it core.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.SNo, &it.HSN, &it.Description,
			&it.Price, &it.Quantity, &it.Total); err != nil {
			return core.Invoice{}, nil, &core.PersistenceError{Op: "scan invoice item", Err: err}
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return core.Invoice{}, nil, &core.PersistenceError{Op: "iterate invoice items", Err: err}
	}
	return inv, items, nil
}

func (s *Store) SearchInvoices(ctx context.Context, query string) ([]core.Invoice, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+invoiceColumns+` FROM invoices
		WHERE invoice_number::text ILIKE '%' || $1 || '%' OR customer_name ILIKE '%' || $1 || '%'
		ORDER BY invoice_number
	`, query)
	if err != nil {
		return nil, &core.PersistenceError{Op: "search invoices", Err: err}
	}
	defer rows.Close()

	var invoices []core.Invoice
	for rows.Next() {
		var inv core.Invoice
		var billType string
		if err := rows.Scan(
			&inv.ID, &inv.InvoiceNumber, &inv.Date, &inv.CustomerName, &inv.CustomerMobile,
			&inv.CustomerPlace, &inv.CustomerAddress, &billType, &inv.Subtotal, &inv.SGST,
			&inv.IGST, &inv.Roundoff, &inv.Total, &inv.PDFPath, &inv.CreatedAt,
		); err != nil {
			return nil, &core.PersistenceError{Op: "scan invoice", Err: err}
		}
		inv.BillType = core.BillType(billType)
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (s *Store) MaxInvoiceNumber(ctx context.Context) (int, error) {
	var max int
	err := s.pool.QueryRow(ctx, "SELECT COALESCE(MAX(invoice_number), 0) FROM invoices").Scan(&max)
	if err != nil {
		return 0, &core.PersistenceError{Op: "query max invoice number", Err: err}
	}
	return max, nil
}

func (s *Store) UpsertProductIfAbsent(ctx context.Context, p core.Product) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO products (hsn, name, price, category)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (hsn) DO NOTHING
	`, p.HSN, p.Name, p.Price, p.Category)
	if err != nil {
		return &core.PersistenceError{Op: "register product", Err: err}
	}
	return nil
}

func (s *Store) SaveProduct(ctx context.Context, p core.Product) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO products (hsn, name, price, category)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (hsn) DO UPDATE
		SET name = EXCLUDED.name, price = EXCLUDED.price, category = EXCLUDED.category, last_updated = NOW()
	`, p.HSN, p.Name, p.Price, p.Category)
	if err != nil {
		return &core.PersistenceError{Op: "save product", Err: err}
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, hsn string) error {
	ct, err := s.pool.Exec(ctx, "DELETE FROM products WHERE hsn = $1", hsn)
	if err != nil {
		return &core.PersistenceError{Op: "delete product", Err: err}
	}
	if ct.RowsAffected() == 0 {
		return &core.NotFoundError{Entity: "product", Key: hsn}
	}
	return nil
}

func (s *Store) ProductByHSN(ctx context.Context, hsn string) (core.Product, error) {
	var p core.Product
	err := s.pool.QueryRow(ctx, `
		SELECT id, hsn, name, price, category, last_updated
		FROM products WHERE hsn = $1
	`, hsn).Scan(&p.ID, &p.HSN, &p.Name, &p.Price, &p.Category, &p.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.Product{}, &core.NotFoundError{Entity: "product", Key: hsn}
		}
		return core.Product{}, &core.PersistenceError{Op: "load product", Err: err}
	}
	return p, nil
}

func (s *Store) SearchProducts(ctx context.Context, query string) ([]core.Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, hsn, name, price, category, last_updated
		FROM products
		WHERE hsn ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%'
		ORDER BY hsn
	`, query)
	if err != nil {
		return nil, &core.PersistenceError{Op: "search products", Err: err}
	}
	defer rows.Close()

	var products []core.Product
	for rows.Next() {
		var p core.Product
		if err := rows.Scan(&p.ID, &p.HSN, &p.Name, &p.Price, &p.Category, &p.LastUpdated); err != nil {
			return nil, &core.PersistenceError{Op: "scan product", Err: err}
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) SaveCustomer(ctx context.Context, c core.Customer) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO customers (name, mobile, place, address, gstin)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (mobile) DO UPDATE
		SET name = EXCLUDED.name, place = EXCLUDED.place, address = EXCLUDED.address, gstin = EXCLUDED.gstin
	`, c.Name, c.Mobile, c.Place, c.Address, c.GSTIN)
	if err != nil {
		return &core.PersistenceError{Op: "save customer", Err: err}
	}
	return nil
}

func (s *Store) DeleteCustomer(ctx context.Context, mobile string) error {
	ct, err := s.pool.Exec(ctx, "DELETE FROM customers WHERE mobile = $1", mobile)
	if err != nil {
		return &core.PersistenceError{Op: "delete customer", Err: err}
	}
	if ct.RowsAffected() == 0 {
		return &core.NotFoundError{Entity: "customer", Key: mobile}
	}
	return nil
}

func (s *Store) CustomerByMobile(ctx context.Context, mobile string) (core.Customer, error) {
	var c core.Customer
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, mobile, place, address, gstin, created_at
		FROM customers WHERE mobile = $1
	`, mobile).Scan(&c.ID, &c.Name, &c.Mobile, &c.Place, &c.Address, &c.GSTIN, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.Customer{}, &core.NotFoundError{Entity: "customer", Key: mobile}
		}
		return core.Customer{}, &core.PersistenceError{Op: "load customer", Err: err}
	}
	return c, nil
}

func (s *Store) SearchCustomers(ctx context.Context, query string) ([]core.Customer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, mobile, place, address, gstin, created_at
		FROM customers
		WHERE name ILIKE '%' || $1 || '%' OR mobile ILIKE '%' || $1 || '%'
		ORDER BY name
	`, query)
	if err != nil {
		return nil, &core.PersistenceError{Op: "search customers", Err: err}
	}
	defer rows.Close()

	var customers []core.Customer
	for rows.Next() {
		var c core.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Mobile, &c.Place, &c.Address, &c.GSTIN, &c.CreatedAt); err != nil {
			return nil, &core.PersistenceError{Op: "scan customer", Err: err}
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *Store) SalesByDateRange(ctx context.Context, from, to time.Time) ([]core.SalesRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT date, invoice_number, customer_name, total
		FROM invoices
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, invoice_number
	`, from, to)
	if err != nil {
		return nil, &core.PersistenceError{Op: "query sales", Err: err}
	}
	defer rows.Close()

	var sales []core.SalesRow
	for rows.Next() {
		var r core.SalesRow
		if err := rows.Scan(&r.Date, &r.InvoiceNumber, &r.CustomerName, &r.Total); err != nil {
			return nil, &core.PersistenceError{Op: "scan sales row", Err: err}
		}
		sales = append(sales, r)
	}
	return sales, rows.Err()
}

func (s *Store) ProductSales(ctx context.Context) ([]core.ProductSalesRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.hsn, p.name, SUM(ii.quantity)::bigint, SUM(ii.total)
		FROM products p
		JOIN invoice_items ii ON ii.hsn = p.hsn
		GROUP BY p.hsn, p.name
		ORDER BY SUM(ii.total) DESC
	`)
	if err != nil {
		return nil, &core.PersistenceError{Op: "query product sales", Err: err}
	}
	defer rows.Close()

	var sales []core.ProductSalesRow
	for rows.Next() {
		var r core.ProductSalesRow
		if err := rows.Scan(&r.HSN, &r.Name, &r.QuantitySold, &r.TotalSales); err != nil {
			return nil, &core.PersistenceError{Op: "scan product sales row", Err: err}
		}
		sales = append(sales, r)
	}
	return sales, rows.Err()
}
