package catalog

import "time"

// Product mirrors the products table. Prices are integer amounts in the
// store currency's smallest unit; SalePrice is nil when no sale is running.
type Product struct {
	ID          int64
	Name        string
	Description string
	Category    string
	Price       int64
	SalePrice   *int64
	Image       string
	CreatedAt   time.Time
}

// CreateParams contains write parameters for creating products.
type CreateParams struct {
	Name        string
	Description string
	Category    string
	Price       int64
	SalePrice   *int64
	Image       string
}

// ListFilters control catalog pagination.
type ListFilters struct {
	Page     int
	PageSize int
}
