package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrInsufficientStock is returned when the product's stock is already
	// fully reserved by the cart.
	ErrInsufficientStock = errors.New("insufficient stock for cart")
	// ErrLineNotFound is returned when a cart line id does not resolve.
	ErrLineNotFound = errors.New("cart line not found")
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

// AddItem puts quantity units of a product into the cart at the given
// unit price, merging into an existing line for the same product. The add
// is rejected when stock minus what the cart already holds leaves nothing
// available.
func (c *Conf) AddItem(ctx context.Context, productID, productName string, quantity, stock int, unitPrice float64) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	return c.withTx(ctx, func(tx *sql.Tx) error {
		var inCart int
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(quantity), 0) FROM cart WHERE product_id = $1`, productID).Scan(&inCart)
		if err != nil {
			return fmt.Errorf("failed to query reserved quantity: %w", err)
		}

		if stock-inCart <= 0 {
			return ErrInsufficientStock
		}

		var (
			lineID   int64
			existing int
		)
		err = tx.QueryRowContext(ctx,
			`SELECT id, quantity FROM cart WHERE product_id = $1`, productID).Scan(&lineID, &existing)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				_, err = tx.ExecContext(ctx,
					`INSERT INTO cart (product_id, product_name, quantity, price) VALUES ($1, $2, $3, $4)`,
					productID, productName, quantity, unitPrice)
				if err != nil {
					return fmt.Errorf("failed to insert cart line: %w", err)
				}
				return nil
			}
			return fmt.Errorf("failed to query cart line: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE cart SET quantity = $1 WHERE id = $2`, existing+quantity, lineID)
		if err != nil {
			return fmt.Errorf("failed to update cart line: %w", err)
		}
		return nil
	})
}

// SetQuantity changes a line's quantity; a quantity of zero or less
// removes the line.
func (c *Conf) SetQuantity(ctx context.Context, lineID int64, quantity int) error {
	if quantity <= 0 {
		return c.RemoveLine(ctx, lineID)
	}

	res, err := c.db.ExecContext(ctx, `UPDATE cart SET quantity = $1 WHERE id = $2`, quantity, lineID)
	if err != nil {
		return fmt.Errorf("failed to update cart quantity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (c *Conf) RemoveLine(ctx context.Context, lineID int64) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM cart WHERE id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (c *Conf) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM cart`); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Items returns the cart lines in insertion order.
func (c *Conf) Items(ctx context.Context) ([]Line, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, product_id, product_name, quantity, price FROM cart ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart: %w", err)
	}
	return lines, nil
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
