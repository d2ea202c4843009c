package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidProduct signals rejected product input.
var ErrInvalidProduct = errors.New("catalog: invalid product")

// Service exposes business-level catalog operations. Reads are public;
// role enforcement on mutations is a transport-layer concern.
type Service struct {
	repo Repository
}

// NewService builds a Service using the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of products plus the total count.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

// GetByID returns the product for the given identifier.
func (s *Service) GetByID(ctx context.Context, id int64) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates and inserts a new product.
func (s *Service) Create(ctx context.Context, params CreateParams) (Product, error) {
	if err := validate(&params); err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, params)
}

// Update validates and replaces the product's mutable fields.
func (s *Service) Update(ctx context.Context, id int64, params CreateParams) (Product, error) {
	if err := validate(&params); err != nil {
		return Product{}, err
	}
	return s.repo.Update(ctx, id, params)
}

// Delete removes the product.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validate(params *CreateParams) error {
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidProduct)
	}
	if params.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if params.SalePrice != nil && (*params.SalePrice < 0 || *params.SalePrice >= params.Price) {
		return fmt.Errorf("%w: sale price must be between 0 and the regular price", ErrInvalidProduct)
	}
	return nil
}
