package products

import (
	"context"
	"fmt"
)

// defaultCategories is seeded once on an empty install.
var defaultCategories = []string{
	"Rolls", "Especiales", "Vegetarianos", "Postres", "Bebidas", "Entradas", "Sopas",
}

func (c *Conf) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	if len(names) > 0 {
		return names, nil
	}

	// Fallback: distinct categories referenced by products.
	rows, err = c.db.QueryContext(ctx, `SELECT DISTINCT category FROM products WHERE category IS NOT NULL ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to list product categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return names, nil
}

func (c *Conf) AddCategory(ctx context.Context, name string) error {
	_, err := c.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("failed to add category: %w", err)
	}
	return nil
}

func (c *Conf) SetProductCategory(ctx context.Context, productID, category string) error {
	res, err := c.db.ExecContext(ctx, `UPDATE products SET category = $1 WHERE id = $2`, category, productID)
	if err != nil {
		return fmt.Errorf("failed to set product category: %w", err)
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

// SeedCategories inserts the default category set; existing names are
// left alone.
func (c *Conf) SeedCategories(ctx context.Context) error {
	for _, name := range defaultCategories {
		if err := c.AddCategory(ctx, name); err != nil {
			return err
		}
	}
	return nil
}
