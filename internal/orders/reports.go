package orders

import "time"

// FilterAll is the sentinel meaning "do not filter on this field".
const FilterAll = "all"

// ReportQuery narrows the ledger for a sales report. From and To bound
// the order's creation date inclusively by its date component, with a
// zero value leaving that side unbounded; the other
// fields are exact-match filters skipped when empty or set to FilterAll.
type ReportQuery struct {
	From          time.Time
	To            time.Time
	Product       string
	PaymentMethod string
	Cashier       string
	Status        string
}

// Filter returns the orders matching the query, preserving input order.
func Filter(list []Order, q ReportQuery) []Order {
	var out []Order
	for _, o := range list {
		d := dateOnly(o.CreatedAt)
		if !q.From.IsZero() && d.Before(dateOnly(q.From)) {
			continue
		}
		if !q.To.IsZero() && d.After(dateOnly(q.To)) {
			continue
		}
		if wants(q.Product) && !containsProduct(o, q.Product) {
			continue
		}
		if wants(q.PaymentMethod) && o.PaymentMethod != q.PaymentMethod {
			continue
		}
		if wants(q.Cashier) && o.Cashier != q.Cashier {
			continue
		}
		if wants(q.Status) && string(o.Status) != q.Status {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Summary aggregates a filtered set of orders.
type Summary struct {
	Count        int     `json:"count"`
	Revenue      float64 `json:"revenue"`
	Discounts    float64 `json:"discounts"`
	AverageOrder float64 `json:"average_order"`
	WithOffer    int     `json:"with_offer"`
}

// Summarize computes the report aggregates over the given orders.
func Summarize(list []Order) Summary {
	var s Summary
	for _, o := range list {
		s.Count++
		s.Revenue += o.Total
		s.Discounts += o.DiscountAmount
		if o.OfferApplied != "" {
			s.WithOffer++
		}
	}
	if s.Count > 0 {
		s.AverageOrder = s.Revenue / float64(s.Count)
	}
	return s
}

func wants(filter string) bool {
	return filter != "" && filter != FilterAll
}

func containsProduct(o Order, name string) bool {
	for _, item := range o.Items {
		if item.Name == name {
			return true
		}
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
