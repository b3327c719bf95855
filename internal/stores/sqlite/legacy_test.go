package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaManu123/Mizu-Sushi/internal/auth"
	"github.com/DaManu123/Mizu-Sushi/internal/offers"
	"github.com/DaManu123/Mizu-Sushi/internal/orders"
)

func TestMapKind(t *testing.T) {
	assert.Equal(t, offers.KindTwoForOne, mapKind("2x1"))
	assert.Equal(t, offers.KindCombo, mapKind("combo"))
	assert.Equal(t, offers.KindDayOfWeek, mapKind("descuento_dia"))
	assert.Equal(t, offers.KindPercentage, mapKind("porcentaje"))
	assert.Equal(t, offers.KindPercentage, mapKind(""))
}

func TestMapTargets(t *testing.T) {
	assert.Equal(t, []string{"all"}, mapTargets(`["todos"]`))
	assert.Equal(t, []string{"Salmon Roll", "all"}, mapTargets(`["Salmon Roll", "Todos"]`))
	assert.Equal(t, []string{"Rolls"}, mapTargets(`["Rolls"]`))

	// Empty or broken lists degrade to the catch-all sentinel.
	assert.Equal(t, []string{"all"}, mapTargets(""))
	assert.Equal(t, []string{"all"}, mapTargets("not json"))
}

func TestMapStatus(t *testing.T) {
	assert.Equal(t, orders.StatusInPreparation, mapStatus("En preparación"))
	assert.Equal(t, orders.StatusCompleted, mapStatus("Completado"))
	assert.Equal(t, orders.StatusCancelled, mapStatus("Cancelado"))
	assert.Equal(t, orders.StatusPaid, mapStatus("Pagado"))
	assert.Equal(t, orders.StatusCompleted, mapStatus("completed"))
	assert.Equal(t, orders.StatusInPreparation, mapStatus(""))
}

func TestMapRole(t *testing.T) {
	assert.Equal(t, auth.RoleAdmin, mapRole("admin"))
	assert.Equal(t, auth.RoleCashier, mapRole("cajero"))
	assert.Equal(t, auth.RoleCustomer, mapRole("cliente"))
	assert.Equal(t, auth.RoleCustomer, mapRole(""))
}

func TestMapLineItemsLegacyKeys(t *testing.T) {
	raw := `[{"nombre":"Salmon Roll","cantidad":2,"precio_unitario":80,"subtotal":160}]`

	items := mapLineItems(raw)

	require.Len(t, items, 1)
	assert.Equal(t, orders.LineItem{Name: "Salmon Roll", Quantity: 2, UnitPrice: 80, Subtotal: 160}, items[0])
}

func TestMapLineItemsCurrentKeys(t *testing.T) {
	raw := `[{"name":"Miso Soup","quantity":3,"unit_price":35}]`

	items := mapLineItems(raw)

	require.Len(t, items, 1)
	assert.Equal(t, "Miso Soup", items[0].Name)
	assert.InDelta(t, 105.0, items[0].Subtotal, 0.001, "missing subtotal is recomputed")
}

func TestMapLineItemsBadPayload(t *testing.T) {
	assert.Nil(t, mapLineItems(""))
	assert.Nil(t, mapLineItems("{broken"))
}

func TestLegacyDate(t *testing.T) {
	assert.Equal(t, "2025-03-10", legacyDate("2025-03-10"))
	assert.Equal(t, "2025-03-10", legacyDate("2025-03-10 14:22:01"))
	assert.Equal(t, "", legacyDate(""))
	assert.Equal(t, "", legacyDate("10/03/2025"))
}

func TestLegacyTimestamp(t *testing.T) {
	got := legacyTimestamp("2025-03-10 14:22:01")
	assert.Equal(t, time.Date(2025, 3, 10, 14, 22, 1, 0, time.UTC), got)

	// Unparseable values fall back to now rather than the zero time.
	assert.False(t, legacyTimestamp("garbage").IsZero())
}
