package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotal(t *testing.T) {
	lines := []Line{
		{ProductName: "Salmon Roll", Quantity: 2, UnitPrice: 80},
		{ProductName: "Miso Soup", Quantity: 3, UnitPrice: 35},
	}

	assert.InDelta(t, 265.0, Total(lines), 0.001)
	assert.Zero(t, Total(nil))
}

func TestItemCount(t *testing.T) {
	lines := []Line{
		{ProductName: "Salmon Roll", Quantity: 2},
		{ProductName: "Miso Soup", Quantity: 3},
	}

	assert.Equal(t, 5, ItemCount(lines))
	assert.Zero(t, ItemCount(nil))
}
