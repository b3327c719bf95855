package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaManu123/Mizu-Sushi/internal/orders"
	"github.com/DaManu123/Mizu-Sushi/internal/products"
)

func TestWriteSnapshot(t *testing.T) {
	dir := t.TempDir()
	snap := Snapshot{
		ExportedAt: time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC),
		Products:   []products.Product{{ID: "P001", Name: "Salmon Roll", Price: 95}},
	}

	path, err := WriteSnapshot(dir, snap)
	require.NoError(t, err)
	assert.Contains(t, path, "backup_20250310_130000.json")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Snapshot
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Products, 1)
	assert.Equal(t, "P001", got.Products[0].ID)
}

func TestWriteSnapshotRequiresDir(t *testing.T) {
	_, err := WriteSnapshot("", Snapshot{})
	assert.Error(t, err)
}

func TestReceipt(t *testing.T) {
	o := orders.Order{
		ID:        "ORD0042",
		CreatedAt: time.Date(2025, 3, 10, 13, 30, 0, 0, time.UTC),
		Items: []orders.LineItem{
			{Name: "Salmon Roll", Quantity: 2, UnitPrice: 80, Subtotal: 160},
			{Name: "Miso Soup", Quantity: 1, UnitPrice: 35, Subtotal: 35},
		},
		OfferApplied:   "House special",
		DiscountAmount: 19.5,
		Subtotal:       195,
		Total:          175.5,
		PaymentMethod:  "cash",
		Cashier:        "ana",
	}

	ticket := Receipt(o)

	assert.Contains(t, ticket, "ORD0042")
	assert.Contains(t, ticket, "2025-03-10 13:30")
	assert.Contains(t, ticket, "Salmon Roll")
	assert.Contains(t, ticket, "ana")
	assert.Contains(t, ticket, "175.50")
	assert.Contains(t, ticket, "House special")
	assert.True(t, strings.HasSuffix(ticket, "\n"))
}

func TestReceiptWithoutDiscount(t *testing.T) {
	o := orders.Order{ID: "ORD0001", Total: 100, Subtotal: 100}

	ticket := Receipt(o)

	assert.NotContains(t, ticket, "Discount")
}
