package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// Catalog order is creation order (created_at, id) so repeated list calls
// are deterministic.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL catalog repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListProducts returns all products in catalog order.
func (r *PostgresRepository) ListProducts(ctx context.Context) ([]Product, error) {
	query := `
		SELECT product_id, name, description, price_cents, stock_level, category_ids, supplier_id, created_at, updated_at
		FROM products
		ORDER BY created_at, product_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetProduct retrieves a product by ID.
func (r *PostgresRepository) GetProduct(ctx context.Context, id string) (*Product, error) {
	query := `
		SELECT product_id, name, description, price_cents, stock_level, category_ids, supplier_id, created_at, updated_at
		FROM products
		WHERE product_id = $1
	`

	product, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// GetProductByName retrieves a product by exact name (case-insensitive).
func (r *PostgresRepository) GetProductByName(ctx context.Context, name string) (*Product, error) {
	query := `
		SELECT product_id, name, description, price_cents, stock_level, category_ids, supplier_id, created_at, updated_at
		FROM products
		WHERE lower(name) = lower($1)
	`

	product, err := scanProduct(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// CreateProduct inserts a new product.
func (r *PostgresRepository) CreateProduct(ctx context.Context, product *Product) error {
	query := `
		INSERT INTO products (product_id, name, description, price_cents, stock_level, category_ids, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.StockLevel,
		product.CategoryIDs,
		product.SupplierID,
		product.CreatedAt,
		product.UpdatedAt,
	)
	return err
}

// UpdateProductStock sets the stock level of a product.
func (r *PostgresRepository) UpdateProductStock(ctx context.Context, id string, stockLevel int) error {
	query := `UPDATE products SET stock_level = $2, updated_at = $3 WHERE product_id = $1`

	result, err := r.pool.Exec(ctx, query, id, stockLevel, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// AdjustProductStock adds delta to a product's stock level, floored at zero.
func (r *PostgresRepository) AdjustProductStock(ctx context.Context, id string, delta int) (int, error) {
	query := `
		UPDATE products
		SET stock_level = GREATEST(stock_level + $2, 0), updated_at = $3
		WHERE product_id = $1
		RETURNING stock_level
	`

	var level int
	err := r.pool.QueryRow(ctx, query, id, delta, time.Now()).Scan(&level)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrProductNotFound
		}
		return 0, err
	}
	return level, nil
}

// ListProductsBySupplier returns all products owned by a supplier.
func (r *PostgresRepository) ListProductsBySupplier(ctx context.Context, supplierID string) ([]Product, error) {
	query := `
		SELECT product_id, name, description, price_cents, stock_level, category_ids, supplier_id, created_at, updated_at
		FROM products
		WHERE supplier_id = $1
		ORDER BY created_at, product_id
	`

	rows, err := r.pool.Query(ctx, query, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ListCategories returns all categories.
func (r *PostgresRepository) ListCategories(ctx context.Context) ([]Category, error) {
	query := `
		SELECT category_id, type, description, seo_tag
		FROM categories
		ORDER BY category_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Type, &c.Description, &c.SEOTag); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory retrieves a category by ID.
func (r *PostgresRepository) GetCategory(ctx context.Context, id string) (*Category, error) {
	query := `
		SELECT category_id, type, description, seo_tag
		FROM categories
		WHERE category_id = $1
	`

	var c Category
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Type, &c.Description, &c.SEOTag)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListAboBoxes returns all abo boxes in catalog order.
func (r *PostgresRepository) ListAboBoxes(ctx context.Context) ([]AboBox, error) {
	query := `
		SELECT abo_box_id, box_type, size, price_cents, product_ids
		FROM abo_boxes
		ORDER BY created_at, abo_box_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boxes []AboBox
	for rows.Next() {
		var b AboBox
		if err := rows.Scan(&b.ID, &b.BoxType, &b.Size, &b.Price, &b.ProductIDs); err != nil {
			return nil, err
		}
		boxes = append(boxes, b)
	}
	return boxes, rows.Err()
}

// GetAboBox retrieves an abo box by ID.
func (r *PostgresRepository) GetAboBox(ctx context.Context, id string) (*AboBox, error) {
	query := `
		SELECT abo_box_id, box_type, size, price_cents, product_ids
		FROM abo_boxes
		WHERE abo_box_id = $1
	`

	var b AboBox
	err := r.pool.QueryRow(ctx, query, id).Scan(&b.ID, &b.BoxType, &b.Size, &b.Price, &b.ProductIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAboBoxNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListSuppliers returns all suppliers.
func (r *PostgresRepository) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	query := `
		SELECT supplier_id, name, email, address, is_partner
		FROM suppliers
		ORDER BY supplier_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Address, &s.IsPartner); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

// GetSupplier retrieves a supplier by ID.
func (r *PostgresRepository) GetSupplier(ctx context.Context, id string) (*Supplier, error) {
	query := `
		SELECT supplier_id, name, email, address, is_partner
		FROM suppliers
		WHERE supplier_id = $1
	`

	var s Supplier
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Email, &s.Address, &s.IsPartner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	return &s, nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.StockLevel,
		&p.CategoryIDs,
		&p.SupplierID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
