package catalog

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeProductRepo struct {
	products map[int64]Product
	seq      int64
	err      error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[int64]Product)}
}

func (f *fakeProductRepo) List(_ context.Context, filters ListFilters) ([]Product, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	out := make([]Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (Product, error) {
	if f.err != nil {
		return Product{}, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) Create(_ context.Context, params CreateParams) (Product, error) {
	if f.err != nil {
		return Product{}, f.err
	}
	f.seq++
	p := Product{
		ID:          f.seq,
		Name:        params.Name,
		Description: params.Description,
		Category:    params.Category,
		Price:       params.Price,
		SalePrice:   params.SalePrice,
		Image:       params.Image,
		CreatedAt:   time.Now().UTC(),
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeProductRepo) Update(_ context.Context, id int64, params CreateParams) (Product, error) {
	if f.err != nil {
		return Product{}, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	p.Name = params.Name
	p.Description = params.Description
	p.Category = params.Category
	p.Price = params.Price
	p.SalePrice = params.SalePrice
	p.Image = params.Image
	f.products[id] = p
	return p, nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.products[id]; !ok {
		return ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func TestCreate_Valid(t *testing.T) {
	svc := NewService(newFakeProductRepo())

	sale := int64(120000)
	p, err := svc.Create(context.Background(), CreateParams{
		Name:      "  Classic Mug  ",
		Price:     150000,
		SalePrice: &sale,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Classic Mug" {
		t.Fatalf("expected trimmed name, got %q", p.Name)
	}
	if p.ID == 0 {
		t.Fatal("expected an assigned id")
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newFakeProductRepo())
	over := int64(200000)
	negative := int64(-1)

	cases := []struct {
		name   string
		params CreateParams
	}{
		{"empty name", CreateParams{Name: "   ", Price: 1000}},
		{"negative price", CreateParams{Name: "Mug", Price: -1}},
		{"negative sale price", CreateParams{Name: "Mug", Price: 1000, SalePrice: &negative}},
		{"sale above price", CreateParams{Name: "Mug", Price: 150000, SalePrice: &over}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.params); !errors.Is(err, ErrInvalidProduct) {
				t.Fatalf("expected ErrInvalidProduct, got %v", err)
			}
		})
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newFakeProductRepo())

	_, err := svc.Update(context.Background(), 99, CreateParams{Name: "Mug", Price: 1000})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_RoundTrip(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), CreateParams{Name: "Mug", Price: 1000})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
