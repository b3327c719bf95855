package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a product id or name does not resolve.
var ErrNotFound = errors.New("product not found")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

func (c *Conf) InsertProduct(ctx context.Context, np NewProduct) (Product, error) {
	p := np.product(time.Now().UTC())

	query := `
		INSERT INTO products (id, name, description, price, stock, category, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			stock = EXCLUDED.stock,
			category = EXCLUDED.category,
			active = EXCLUDED.active
	`
	_, err := c.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.Active, p.CreatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return p, nil
}

func (c *Conf) GetProductByID(ctx context.Context, productID string) (Product, error) {
	query := `
		SELECT id, name, description, price, stock, category, active, created_at
		FROM products
		WHERE id = $1
	`
	var p Product
	err := c.db.QueryRowContext(ctx, query, productID).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

// GetProductByName looks a product up by exact name first, then falls back
// to a case-insensitive match.
func (c *Conf) GetProductByName(ctx context.Context, name string) (Product, error) {
	const base = `
		SELECT id, name, description, price, stock, category, active, created_at
		FROM products
	`
	var p Product
	err := c.db.QueryRowContext(ctx, base+`WHERE name = $1`, name).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Active, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = c.db.QueryRowContext(ctx, base+`WHERE LOWER(name) = LOWER($1)`, name).
			Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Active, &p.CreatedAt)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("failed to query product by name: %w", err)
	}
	return p, nil
}

// ListProducts returns active products ordered by category then name,
// optionally restricted to one category.
func (c *Conf) ListProducts(ctx context.Context, category string) ([]Product, error) {
	query := `
		SELECT id, name, description, price, stock, category, active, created_at
		FROM products
		WHERE active = true
	`
	args := []any{}
	if category != "" {
		query += ` AND category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY category, name`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var list []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return list, nil
}

func (c *Conf) UpdateProduct(ctx context.Context, p Product) (Product, error) {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5, category = $6, active = $7
		WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.Active)
	if err != nil {
		return Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Product{}, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (c *Conf) DeleteProduct(ctx context.Context, productID string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustStock applies delta to the product's stock counter and returns the
// resulting value. Stock never goes below zero; an overshooting decrement
// clamps silently.
func (c *Conf) AdjustStock(ctx context.Context, productID string, delta int) (int, error) {
	var newStock int
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		var current int
		err := tx.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&current)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to query stock: %w", err)
		}

		newStock = clampStock(current, delta)
		if _, err := tx.ExecContext(ctx, `UPDATE products SET stock = $1 WHERE id = $2`, newStock, productID); err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newStock, nil
}

// clampStock floors the adjusted stock at zero.
func clampStock(current, delta int) int {
	s := current + delta
	if s < 0 {
		return 0
	}
	return s
}

func (c *Conf) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if er := tx.Rollback(); er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback withTx: %w", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}
