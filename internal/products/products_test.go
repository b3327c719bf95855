package products

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClampStock(t *testing.T) {
	assert.Equal(t, 15, clampStock(10, 5))
	assert.Equal(t, 5, clampStock(10, -5))
	assert.Equal(t, 0, clampStock(10, -10))

	// Oversized decrements clamp to zero rather than going negative.
	assert.Equal(t, 0, clampStock(10, -25))
	assert.Equal(t, 0, clampStock(0, -1))
}

func TestNewProductDefaults(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	p := NewProduct{ID: "P001", Name: "Salmon Roll", Price: 95}.product(now)

	assert.Equal(t, DefaultStock, p.Stock)
	assert.Equal(t, DefaultCategory, p.Category)
	assert.True(t, p.Active)
	assert.Equal(t, now, p.CreatedAt)
}

func TestNewProductExplicitFields(t *testing.T) {
	stock := 0
	inactive := false

	p := NewProduct{
		ID:       "P002",
		Name:     "Dragon Roll",
		Price:    120,
		Stock:    &stock,
		Category: "Especiales",
		Active:   &inactive,
	}.product(time.Now())

	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, "Especiales", p.Category)
	assert.False(t, p.Active)
}
