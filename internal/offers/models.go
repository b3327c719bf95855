package offers

import "time"

// Kind selects how an offer's discount field is interpreted.
type Kind string

const (
	// KindPercentage takes Discount percent off the unit price.
	KindPercentage Kind = "percentage"
	// KindTwoForOne is stored with Discount 50; the second unit is free.
	KindTwoForOne Kind = "two_for_one"
	// KindCombo discounts a bundled set of products by Discount percent.
	KindCombo Kind = "combo"
	// KindDayOfWeek applies Discount percent on its configured weekday.
	KindDayOfWeek Kind = "day_of_week"
)

// TargetAll in the target list makes the offer apply to every product.
const TargetAll = "all"

// Offer is a promotional rule. Targets may hold product names, product
// ids, category names, or the TargetAll sentinel.
type Offer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Kind        Kind      `json:"kind"`
	Targets     []string  `json:"targets"`
	Discount    int       `json:"discount"`
	Active      bool      `json:"active"`
	ValidFrom   time.Time `json:"valid_from"`
	ValidUntil  time.Time `json:"valid_until"`
}

// NewOffer is the payload accepted when creating or updating an offer.
type NewOffer struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Kind        Kind     `json:"kind" validate:"required,oneof=percentage two_for_one combo day_of_week"`
	Targets     []string `json:"targets" validate:"required,min=1"`
	Discount    int      `json:"discount" validate:"min=0,max=100"`
	Active      *bool    `json:"active"`
	ValidFrom   string   `json:"valid_from" validate:"omitempty,datetime=2006-01-02"`
	ValidUntil  string   `json:"valid_until" validate:"omitempty,datetime=2006-01-02"`
}

func (no NewOffer) offer() Offer {
	o := Offer{
		ID:          no.ID,
		Name:        no.Name,
		Description: no.Description,
		Kind:        no.Kind,
		Targets:     no.Targets,
		Discount:    no.Discount,
		Active:      true,
	}
	if no.Active != nil {
		o.Active = *no.Active
	}
	// Two-for-one always amounts to half price, whatever was submitted.
	if o.Kind == KindTwoForOne {
		o.Discount = 50
	}
	if t, err := time.Parse("2006-01-02", no.ValidFrom); err == nil {
		o.ValidFrom = t
	}
	if t, err := time.Parse("2006-01-02", no.ValidUntil); err == nil {
		o.ValidUntil = t
	}
	return o
}

// Stats summarizes the offer catalog.
type Stats struct {
	Total    int          `json:"total"`
	Active   int          `json:"active"`
	Inactive int          `json:"inactive"`
	ByKind   map[Kind]int `json:"by_kind"`
}

// Summarize counts offers by state and kind.
func Summarize(list []Offer) Stats {
	s := Stats{ByKind: make(map[Kind]int)}
	for _, o := range list {
		s.Total++
		if o.Active {
			s.Active++
		} else {
			s.Inactive++
		}
		s.ByKind[o.Kind]++
	}
	return s
}
