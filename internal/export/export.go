// Package export writes point-in-time files out of the live stores: a
// JSON snapshot for backups and a plain-text receipt for a single order.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DaManu123/Mizu-Sushi/internal/offers"
	"github.com/DaManu123/Mizu-Sushi/internal/orders"
	"github.com/DaManu123/Mizu-Sushi/internal/products"
)

// Snapshot is the backup payload: the full catalog, offer list, and
// order ledger at the moment of export.
type Snapshot struct {
	ExportedAt time.Time          `json:"exported_at"`
	Products   []products.Product `json:"products"`
	Offers     []offers.Offer     `json:"offers"`
	Orders     []orders.Order     `json:"orders"`
}

// WriteSnapshot serializes snap into dir as a timestamped JSON file and
// returns the path written.
func WriteSnapshot(dir string, snap Snapshot) (string, error) {
	if dir == "" {
		return "", errors.New("export directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	name := "backup_" + snap.ExportedAt.Format("20060102_150405") + ".json"
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// Receipt renders a printable plain-text ticket for one order.
func Receipt(o orders.Order) string {
	var b strings.Builder
	line := strings.Repeat("=", 38)

	fmt.Fprintf(&b, "%s\n", line)
	fmt.Fprintf(&b, "%s\n", center("MIZU SUSHI", 38))
	fmt.Fprintf(&b, "%s\n", line)
	fmt.Fprintf(&b, "Order:   %s\n", o.ID)
	fmt.Fprintf(&b, "Date:    %s\n", o.CreatedAt.Format("2006-01-02 15:04"))
	if o.Cashier != "" {
		fmt.Fprintf(&b, "Cashier: %s\n", o.Cashier)
	}
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 38))

	for _, it := range o.Items {
		fmt.Fprintf(&b, "%-22s %2dx %6.2f\n", trim(it.Name, 22), it.Quantity, it.UnitPrice)
		fmt.Fprintf(&b, "%32s%6.2f\n", "", it.Subtotal)
	}

	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 38))
	fmt.Fprintf(&b, "%-28s %9.2f\n", "Subtotal", o.Subtotal)
	if o.DiscountAmount > 0 {
		label := "Discount"
		if o.OfferApplied != "" {
			label = "Discount (" + trim(o.OfferApplied, 15) + ")"
		}
		fmt.Fprintf(&b, "%-28s-%9.2f\n", label, o.DiscountAmount)
	}
	fmt.Fprintf(&b, "%-28s %9.2f\n", "TOTAL", o.Total)
	if o.PaymentMethod != "" {
		fmt.Fprintf(&b, "Paid by: %s\n", o.PaymentMethod)
	}
	fmt.Fprintf(&b, "%s\n", line)
	fmt.Fprintf(&b, "%s\n", center("Thank you for your visit", 38))
	fmt.Fprintf(&b, "%s\n", line)
	return b.String()
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func trim(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "."
}
