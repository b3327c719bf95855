package offers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when an offer id does not resolve.
var ErrNotFound = errors.New("offer not found")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

// SaveOffer inserts or replaces the offer keyed by its id.
func (c *Conf) SaveOffer(ctx context.Context, no NewOffer) (Offer, error) {
	o := no.offer()

	targetsJSON, err := json.Marshal(o.Targets)
	if err != nil {
		return Offer{}, fmt.Errorf("failed to marshal offer targets: %w", err)
	}

	query := `
		INSERT INTO offers (id, name, description, kind, targets, discount, active, valid_from, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			kind = EXCLUDED.kind,
			targets = EXCLUDED.targets,
			discount = EXCLUDED.discount,
			active = EXCLUDED.active,
			valid_from = EXCLUDED.valid_from,
			valid_until = EXCLUDED.valid_until
	`
	_, err = c.db.ExecContext(ctx, query, o.ID, o.Name, o.Description, o.Kind, targetsJSON,
		o.Discount, o.Active, nullDate(o.ValidFrom), nullDate(o.ValidUntil))
	if err != nil {
		return Offer{}, fmt.Errorf("failed to save offer: %w", err)
	}
	return o, nil
}

func (c *Conf) DeleteOffer(ctx context.Context, offerID string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, offerID)
	if err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
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

// ToggleOffer flips the Active flag on or off.
func (c *Conf) ToggleOffer(ctx context.Context, offerID string, active bool) error {
	res, err := c.db.ExecContext(ctx, `UPDATE offers SET active = $1 WHERE id = $2`, active, offerID)
	if err != nil {
		return fmt.Errorf("failed to toggle offer: %w", err)
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

// LoadOffers returns every offer, active ones first.
func (c *Conf) LoadOffers(ctx context.Context) ([]Offer, error) {
	return c.load(ctx, `
		SELECT id, name, description, kind, targets, discount, active, valid_from, valid_until
		FROM offers
		ORDER BY active DESC, name
	`)
}

// ActiveOffers returns active offers in stored order, which is also the
// order pricing evaluates them in.
func (c *Conf) ActiveOffers(ctx context.Context) ([]Offer, error) {
	return c.load(ctx, `
		SELECT id, name, description, kind, targets, discount, active, valid_from, valid_until
		FROM offers
		WHERE active = true
		ORDER BY id
	`)
}

func (c *Conf) load(ctx context.Context, query string) ([]Offer, error) {
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close()

	var list []Offer
	for rows.Next() {
		var (
			o           Offer
			targetsJSON []byte
			from, until sql.NullTime
		)
		if err := rows.Scan(&o.ID, &o.Name, &o.Description, &o.Kind, &targetsJSON, &o.Discount, &o.Active, &from, &until); err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		if len(targetsJSON) > 0 {
			// A target list that fails to parse leaves the offer with no
			// targets, so it simply never matches.
			_ = json.Unmarshal(targetsJSON, &o.Targets)
		}
		if from.Valid {
			o.ValidFrom = from.Time
		}
		if until.Valid {
			o.ValidUntil = until.Time
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offers: %w", err)
	}
	return list, nil
}

func nullDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
