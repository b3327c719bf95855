package offers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaManu123/Mizu-Sushi/internal/products"
)

func salmonRoll() products.Product {
	return products.Product{
		ID:       "P001",
		Name:     "Salmon Roll",
		Price:    100,
		Category: "Rolls",
	}
}

func TestResolvePriceNoOffers(t *testing.T) {
	price, applied := ResolvePrice(salmonRoll(), nil)

	assert.Equal(t, 100.0, price)
	assert.Nil(t, applied)
}

func TestResolvePricePercentageAll(t *testing.T) {
	active := []Offer{
		{ID: "O1", Name: "House special", Kind: KindPercentage, Targets: []string{TargetAll}, Discount: 20, Active: true},
	}

	price, applied := ResolvePrice(salmonRoll(), active)

	require.NotNil(t, applied)
	assert.Equal(t, "O1", applied.ID)
	assert.InDelta(t, 80.0, price, 0.001)
}

func TestResolvePriceFirstMatchWins(t *testing.T) {
	active := []Offer{
		{ID: "O1", Kind: KindPercentage, Targets: []string{"Rolls"}, Discount: 10},
		{ID: "O2", Kind: KindPercentage, Targets: []string{TargetAll}, Discount: 90},
	}

	price, applied := ResolvePrice(salmonRoll(), active)

	require.NotNil(t, applied)
	assert.Equal(t, "O1", applied.ID)
	assert.InDelta(t, 90.0, price, 0.001)
}

func TestResolvePriceTwoForOneIsHalfPrice(t *testing.T) {
	// The stored discount is ignored for two-for-one offers.
	active := []Offer{
		{ID: "O1", Kind: KindTwoForOne, Targets: []string{"P001"}, Discount: 10},
	}

	price, applied := ResolvePrice(salmonRoll(), active)

	require.NotNil(t, applied)
	assert.InDelta(t, 50.0, price, 0.001)
}

func TestResolvePriceMalformedDiscountPricesAtFull(t *testing.T) {
	active := []Offer{
		{ID: "O1", Kind: KindPercentage, Targets: []string{TargetAll}, Discount: 150},
	}

	price, applied := ResolvePrice(salmonRoll(), active)

	// A matching but malformed offer still "applies", at zero percent.
	require.NotNil(t, applied)
	assert.InDelta(t, 100.0, price, 0.001)
}

func TestAppliesToTargets(t *testing.T) {
	p := salmonRoll()

	assert.True(t, Offer{Targets: []string{"Salmon Roll"}}.AppliesTo(p), "by name")
	assert.True(t, Offer{Targets: []string{"P001"}}.AppliesTo(p), "by id")
	assert.True(t, Offer{Targets: []string{"Rolls"}}.AppliesTo(p), "by category")
	assert.True(t, Offer{Targets: []string{TargetAll}}.AppliesTo(p), "catch-all")
	assert.False(t, Offer{Targets: []string{"Tuna Roll"}}.AppliesTo(p))
	assert.False(t, Offer{}.AppliesTo(p), "no targets")
}

func TestEffectivePercent(t *testing.T) {
	assert.Equal(t, 25, Offer{Kind: KindPercentage, Discount: 25}.EffectivePercent())
	assert.Equal(t, 50, Offer{Kind: KindTwoForOne, Discount: 5}.EffectivePercent())
	assert.Equal(t, 0, Offer{Kind: KindPercentage, Discount: -1}.EffectivePercent())
	assert.Equal(t, 0, Offer{Kind: KindPercentage, Discount: 101}.EffectivePercent())
}

func TestSummarize(t *testing.T) {
	list := []Offer{
		{Kind: KindPercentage, Active: true},
		{Kind: KindPercentage, Active: false},
		{Kind: KindTwoForOne, Active: true},
	}

	s := Summarize(list)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Active)
	assert.Equal(t, 1, s.Inactive)
	assert.Equal(t, 2, s.ByKind[KindPercentage])
	assert.Equal(t, 1, s.ByKind[KindTwoForOne])
}

func TestNewOfferForcesTwoForOneDiscount(t *testing.T) {
	no := NewOffer{ID: "O1", Name: "2 rolls", Kind: KindTwoForOne, Targets: []string{TargetAll}, Discount: 30}

	o := no.offer()

	assert.Equal(t, 50, o.Discount)
	assert.True(t, o.Active)
}
