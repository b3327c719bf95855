package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int, hour int) time.Time {
	return time.Date(2025, 3, d, hour, 0, 0, 0, time.UTC)
}

func sampleLedger() []Order {
	return []Order{
		{ID: "ORD0001", CreatedAt: day(1, 9), Total: 100, PaymentMethod: PaymentCash, Cashier: "ana", Status: StatusCompleted,
			Items: []LineItem{{Name: "Salmon Roll", Quantity: 1, UnitPrice: 100, Subtotal: 100}}},
		{ID: "ORD0002", CreatedAt: day(2, 12), Total: 50, DiscountAmount: 10, OfferApplied: "House special",
			PaymentMethod: PaymentCard, Cashier: "ben", Status: StatusCompleted,
			Items: []LineItem{{Name: "Miso Soup", Quantity: 2, UnitPrice: 30, Subtotal: 60}}},
		{ID: "ORD0003", CreatedAt: day(2, 23), Total: 80, PaymentMethod: PaymentCash, Cashier: "ana", Status: StatusCancelled,
			Items: []LineItem{{Name: "Salmon Roll", Quantity: 1, UnitPrice: 80, Subtotal: 80}}},
		{ID: "ORD0004", CreatedAt: day(5, 14), Total: 120, PaymentMethod: PaymentCard, Cashier: "ana", Status: StatusPaid,
			Items: []LineItem{{Name: "Dragon Roll", Quantity: 1, UnitPrice: 120, Subtotal: 120}}},
	}
}

func TestFilterDateRangeInclusive(t *testing.T) {
	got := Filter(sampleLedger(), ReportQuery{From: day(2, 0), To: day(2, 0)})

	require.Len(t, got, 2)
	assert.Equal(t, "ORD0002", got[0].ID)
	assert.Equal(t, "ORD0003", got[1].ID)
}

func TestFilterOpenBounds(t *testing.T) {
	// A zero From or To leaves that side unbounded.
	got := Filter(sampleLedger(), ReportQuery{})
	assert.Len(t, got, 4)

	got = Filter(sampleLedger(), ReportQuery{From: day(3, 0)})
	require.Len(t, got, 1)
	assert.Equal(t, "ORD0004", got[0].ID)

	got = Filter(sampleLedger(), ReportQuery{To: day(1, 0)})
	require.Len(t, got, 1)
	assert.Equal(t, "ORD0001", got[0].ID)
}

func TestFilterByProduct(t *testing.T) {
	got := Filter(sampleLedger(), ReportQuery{Product: "Salmon Roll"})

	require.Len(t, got, 2)
	assert.Equal(t, "ORD0001", got[0].ID)
	assert.Equal(t, "ORD0003", got[1].ID)
}

func TestFilterByPaymentCashierStatus(t *testing.T) {
	got := Filter(sampleLedger(), ReportQuery{PaymentMethod: PaymentCard})
	assert.Len(t, got, 2)

	got = Filter(sampleLedger(), ReportQuery{Cashier: "ben"})
	require.Len(t, got, 1)
	assert.Equal(t, "ORD0002", got[0].ID)

	got = Filter(sampleLedger(), ReportQuery{Status: string(StatusCancelled)})
	require.Len(t, got, 1)
	assert.Equal(t, "ORD0003", got[0].ID)
}

func TestFilterAllSentinelMatchesEverything(t *testing.T) {
	q := ReportQuery{Product: FilterAll, PaymentMethod: FilterAll, Cashier: FilterAll, Status: FilterAll}

	got := Filter(sampleLedger(), q)

	assert.Len(t, got, 4)
}

func TestFilterCombined(t *testing.T) {
	q := ReportQuery{From: day(1, 0), To: day(3, 0), PaymentMethod: PaymentCash, Cashier: "ana"}

	got := Filter(sampleLedger(), q)

	require.Len(t, got, 2)
	assert.Equal(t, "ORD0001", got[0].ID)
	assert.Equal(t, "ORD0003", got[1].ID)
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleLedger())

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 350.0, s.Revenue, 0.001)
	assert.InDelta(t, 10.0, s.Discounts, 0.001)
	assert.InDelta(t, 87.5, s.AverageOrder, 0.001)
	assert.Equal(t, 1, s.WithOffer)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.Count)
	assert.Zero(t, s.AverageOrder)
}
