package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DaManu123/Mizu-Sushi/internal/cart"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNotFound is returned when an order id does not resolve.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidTransition is returned for a disallowed status change.
	ErrInvalidTransition = errors.New("invalid status transition")
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

// BuildOrder assembles an order from cart lines without touching the
// store. The subtotal comes from the snapshot prices captured when the
// items were added; the discount is whatever the caller recorded when the
// prices were resolved. Sequence numbers become ids of the form ORD0042.
func BuildOrder(seq int64, now time.Time, lines []cart.Line, offerApplied string, discount float64, paymentMethod, cashier string) (Order, error) {
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	o := Order{
		ID:             fmt.Sprintf("ORD%04d", seq),
		CreatedAt:      now,
		OfferApplied:   offerApplied,
		DiscountAmount: discount,
		PaymentMethod:  paymentMethod,
		Cashier:        cashier,
		Status:         StatusInPreparation,
	}
	for _, l := range lines {
		sub := float64(l.Quantity) * l.UnitPrice
		o.Items = append(o.Items, LineItem{
			Name:      l.ProductName,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  sub,
		})
		o.Subtotal += sub
	}
	o.Total = o.Subtotal - o.DiscountAmount
	return o, nil
}

// Checkout turns the given cart lines into a persisted order and empties
// the cart. Both writes happen in one transaction so the ledger and the
// cart cannot diverge.
func (c *Conf) Checkout(ctx context.Context, lines []cart.Line, offerApplied string, discount float64, paymentMethod, cashier string) (Order, error) {
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	var order Order
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		var seq int64
		if err := tx.QueryRowContext(ctx, `SELECT nextval('order_seq')`).Scan(&seq); err != nil {
			return fmt.Errorf("failed to take order sequence: %w", err)
		}

		o, err := BuildOrder(seq, time.Now().UTC(), lines, offerApplied, discount, paymentMethod, cashier)
		if err != nil {
			return err
		}

		itemsJSON, err := json.Marshal(o.Items)
		if err != nil {
			return fmt.Errorf("failed to marshal line items: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO orders (id, created_at, line_items, offer_applied, discount_amount, subtotal, total, payment_method, cashier, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, o.ID, o.CreatedAt, itemsJSON, o.OfferApplied, o.DiscountAmount, o.Subtotal, o.Total, o.PaymentMethod, o.Cashier, o.Status)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM cart`); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		order = o
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

// SaveOrder upserts a fully-formed order keyed by its id. Checkout is the
// normal write path; this exists for the legacy import and for restoring
// backups.
func (c *Conf) SaveOrder(ctx context.Context, o Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal line items: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO orders (id, created_at, line_items, offer_applied, discount_amount, subtotal, total, payment_method, cashier, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			created_at = EXCLUDED.created_at,
			line_items = EXCLUDED.line_items,
			offer_applied = EXCLUDED.offer_applied,
			discount_amount = EXCLUDED.discount_amount,
			subtotal = EXCLUDED.subtotal,
			total = EXCLUDED.total,
			payment_method = EXCLUDED.payment_method,
			cashier = EXCLUDED.cashier,
			status = EXCLUDED.status
	`, o.ID, o.CreatedAt, itemsJSON, o.OfferApplied, o.DiscountAmount, o.Subtotal, o.Total, o.PaymentMethod, o.Cashier, o.Status)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (c *Conf) GetOrderByID(ctx context.Context, orderID string) (Order, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, created_at, line_items, offer_applied, discount_amount, subtotal, total, payment_method, cashier, status
		FROM orders
		WHERE id = $1
	`, orderID)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

// LoadOrders returns the ledger newest first.
func (c *Conf) LoadOrders(ctx context.Context) ([]Order, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, created_at, line_items, offer_applied, discount_amount, subtotal, total, payment_method, cashier, status
		FROM orders
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var list []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	return list, nil
}

// SetStatus applies a status transition after validating it against the
// one-way state machine.
func (c *Conf) SetStatus(ctx context.Context, orderID string, to Status) (Order, error) {
	var order Order
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT id, created_at, line_items, offer_applied, discount_amount, subtotal, total, payment_method, cashier, status
			FROM orders
			WHERE id = $1
			FOR UPDATE
		`, orderID)

		o, err := scanOrder(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		if !CanTransition(o.Status, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, to, orderID); err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		o.Status = to
		order = o
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var (
		o         Order
		itemsJSON []byte
	)
	err := row.Scan(&o.ID, &o.CreatedAt, &itemsJSON, &o.OfferApplied, &o.DiscountAmount,
		&o.Subtotal, &o.Total, &o.PaymentMethod, &o.Cashier, &o.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, err
		}
		return Order{}, fmt.Errorf("failed to scan order: %w", err)
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return Order{}, fmt.Errorf("failed to unmarshal line items: %w", err)
		}
	}
	return o, nil
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
