package cart

// Line is one product entry in the session cart. Name and unit price are
// snapshots taken when the item was added; the unit price may already
// reflect an offer.
type Line struct {
	ID          int64   `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Total sums quantity times unit price over the lines.
func Total(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += float64(l.Quantity) * l.UnitPrice
	}
	return total
}

// ItemCount sums the quantities over the lines.
func ItemCount(lines []Line) int {
	var count int
	for _, l := range lines {
		count += l.Quantity
	}
	return count
}
