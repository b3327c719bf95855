package offers

import "github.com/DaManu123/Mizu-Sushi/internal/products"

// ResolvePrice returns the effective unit price for p given the offers the
// caller considers active, together with the offer that produced it. The
// first matching offer in stored order wins; with no match the catalog
// price comes back unchanged and the offer is nil.
//
// Eligibility is gated by the Active flag only; the validity window is not
// consulted here.
func ResolvePrice(p products.Product, active []Offer) (float64, *Offer) {
	for i := range active {
		if active[i].AppliesTo(p) {
			pct := active[i].EffectivePercent()
			return p.Price * (1 - float64(pct)/100), &active[i]
		}
	}
	return p.Price, nil
}

// AppliesTo reports whether the offer's target list covers the product,
// either through the all-products sentinel or by naming the product's
// name, id, or category.
func (o Offer) AppliesTo(p products.Product) bool {
	for _, t := range o.Targets {
		switch t {
		case TargetAll, p.Name, p.ID, p.Category:
			return true
		}
	}
	return false
}

// EffectivePercent is the percentage the offer takes off the unit price.
// Two-for-one counts as 50%. A discount outside 0-100 is treated as 0 so
// a malformed offer never breaks pricing.
func (o Offer) EffectivePercent() int {
	if o.Kind == KindTwoForOne {
		return 50
	}
	if o.Discount < 0 || o.Discount > 100 {
		return 0
	}
	return o.Discount
}
