package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals the requested product does not exist.
var ErrNotFound = errors.New("catalog: product not found")

// Repository handles data access for the product catalog.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Product, int, error)
	GetByID(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, params CreateParams) (Product, error)
	Update(ctx context.Context, id int64, params CreateParams) (Product, error)
	Delete(ctx context.Context, id int64) error
}

const productColumns = `id, name, description, category, price, sale_price, image, created_at`

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed catalog repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// List returns one page of products, newest first, plus the total count.
func (r *PGRepository) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	const query = `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, filters.PageSize, (filters.Page-1)*filters.PageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("catalog: scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("catalog: iterate products: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("catalog: count: %w", err)
	}

	return products, total, nil
}

// GetByID fetches a product by its primary key.
func (r *PGRepository) GetByID(ctx context.Context, id int64) (Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("catalog: get by id: %w", err)
	}
	return p, nil
}

// Create inserts a new product.
func (r *PGRepository) Create(ctx context.Context, params CreateParams) (Product, error) {
	const insertSQL = `
		INSERT INTO products (name, description, category, price, sale_price, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + productColumns

	p, err := scanProduct(r.pool.QueryRow(ctx, insertSQL,
		params.Name, params.Description, params.Category, params.Price, params.SalePrice, params.Image))
	if err != nil {
		return Product{}, fmt.Errorf("catalog: create: %w", err)
	}
	return p, nil
}

// Update replaces all mutable columns of the product.
func (r *PGRepository) Update(ctx context.Context, id int64, params CreateParams) (Product, error) {
	const updateSQL = `
		UPDATE products
		SET name = $2, description = $3, category = $4, price = $5, sale_price = $6, image = $7
		WHERE id = $1
		RETURNING ` + productColumns

	p, err := scanProduct(r.pool.QueryRow(ctx, updateSQL,
		id, params.Name, params.Description, params.Category, params.Price, params.SalePrice, params.Image))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("catalog: update: %w", err)
	}
	return p, nil
}

// Delete removes the product.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("catalog: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p         Product
		salePrice *int64
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.Price,
		&salePrice,
		&p.Image,
		&p.CreatedAt,
	)
	if err != nil {
		return Product{}, err
	}
	p.SalePrice = salePrice
	return p, nil
}
