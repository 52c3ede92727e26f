package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// MasterDataService is the explicit management path for products and
// customers. Unlike the lazy registration done by the invoice path, these
// operations do overwrite existing records.
type MasterDataService struct {
	store Store
}

func NewMasterDataService(store Store) *MasterDataService {
	return &MasterDataService{store: store}
}

func validateProduct(p Product) error {
	if p.HSN == "" {
		return &ValidationError{Field: "hsn", Reason: "must not be empty"}
	}
	if p.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if p.Price.LessThan(decimal.Zero) {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}

// SaveProduct creates or overwrites the product with the given HSN.
func (s *MasterDataService) SaveProduct(ctx context.Context, p Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.store.SaveProduct(ctx, p)
}

// DeleteProduct removes a product by HSN.
func (s *MasterDataService) DeleteProduct(ctx context.Context, hsn string) error {
	if hsn == "" {
		return &ValidationError{Field: "hsn", Reason: "must not be empty"}
	}
	return s.store.DeleteProduct(ctx, hsn)
}

// Product looks up a product by HSN.
func (s *MasterDataService) Product(ctx context.Context, hsn string) (Product, error) {
	return s.store.ProductByHSN(ctx, hsn)
}

// SearchProducts matches the query as a substring of HSN or name. An empty
// query lists all products.
func (s *MasterDataService) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	return s.store.SearchProducts(ctx, query)
}

// SaveCustomer creates or overwrites the customer with the given mobile.
func (s *MasterDataService) SaveCustomer(ctx context.Context, c Customer) error {
	if c.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if c.Mobile == "" {
		return &ValidationError{Field: "mobile", Reason: "must not be empty"}
	}
	return s.store.SaveCustomer(ctx, c)
}

// DeleteCustomer removes a customer by mobile.
func (s *MasterDataService) DeleteCustomer(ctx context.Context, mobile string) error {
	if mobile == "" {
		return &ValidationError{Field: "mobile", Reason: "must not be empty"}
	}
	return s.store.DeleteCustomer(ctx, mobile)
}

// Customer looks up a customer by mobile.
func (s *MasterDataService) Customer(ctx context.Context, mobile string) (Customer, error) {
	return s.store.CustomerByMobile(ctx, mobile)
}

// SearchCustomers matches the query as a substring of name or mobile. An
// empty query lists all customers.
func (s *MasterDataService) SearchCustomers(ctx context.Context, query string) ([]Customer, error) {
	return s.store.SearchCustomers(ctx, query)
}
