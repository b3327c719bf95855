package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaManu123/Mizu-Sushi/internal/cart"
)

func TestBuildOrderEmptyCart(t *testing.T) {
	_, err := BuildOrder(1, time.Now(), nil, "", 0, PaymentCash, "ana")

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBuildOrderTotals(t *testing.T) {
	now := time.Date(2025, 3, 10, 13, 30, 0, 0, time.UTC)
	lines := []cart.Line{
		{ProductID: "P001", ProductName: "Salmon Roll", Quantity: 2, UnitPrice: 80},
		{ProductID: "P002", ProductName: "Miso Soup", Quantity: 1, UnitPrice: 35},
	}

	o, err := BuildOrder(42, now, lines, "House special", 19.5, PaymentCard, "ana")
	require.NoError(t, err)

	assert.Equal(t, "ORD0042", o.ID)
	assert.Equal(t, now, o.CreatedAt)
	assert.Equal(t, StatusInPreparation, o.Status)
	require.Len(t, o.Items, 2)
	assert.Equal(t, LineItem{Name: "Salmon Roll", Quantity: 2, UnitPrice: 80, Subtotal: 160}, o.Items[0])
	assert.InDelta(t, 195.0, o.Subtotal, 0.001)
	assert.InDelta(t, o.Subtotal-o.DiscountAmount, o.Total, 0.001)
	assert.InDelta(t, 175.5, o.Total, 0.001)
}

func TestBuildOrderIDPadding(t *testing.T) {
	lines := []cart.Line{{ProductName: "Salmon Roll", Quantity: 1, UnitPrice: 10}}

	o, err := BuildOrder(7, time.Now(), lines, "", 0, PaymentCash, "")
	require.NoError(t, err)
	assert.Equal(t, "ORD0007", o.ID)

	o, err = BuildOrder(12345, time.Now(), lines, "", 0, PaymentCash, "")
	require.NoError(t, err)
	assert.Equal(t, "ORD12345", o.ID)
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("completed")
	assert.True(t, ok)
	assert.Equal(t, StatusCompleted, s)

	_, ok = ParseStatus("shipped")
	assert.False(t, ok)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusInPreparation, StatusCompleted))
	assert.True(t, CanTransition(StatusInPreparation, StatusCancelled))
	assert.True(t, CanTransition(StatusInPreparation, StatusPaid))

	// Terminal states never move again.
	assert.False(t, CanTransition(StatusCompleted, StatusPaid))
	assert.False(t, CanTransition(StatusCancelled, StatusInPreparation))
	assert.False(t, CanTransition(StatusPaid, StatusCompleted))

	assert.False(t, CanTransition(StatusInPreparation, StatusInPreparation))
}
