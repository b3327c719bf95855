package products

import "time"

// Product is a menu item as stored in the catalog.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewProduct is the payload accepted when creating a catalog entry.
// Stock and Active are pointers so an omitted field gets the catalog
// default (50 units, active) instead of the zero value.
type NewProduct struct {
	ID          string  `json:"id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"min=0"`
	Stock       *int    `json:"stock" validate:"omitempty,min=0"`
	Category    string  `json:"category"`
	Active      *bool   `json:"active"`
}

const (
	DefaultStock    = 50
	DefaultCategory = "general"
)

// product builds the Product a NewProduct describes, filling defaults.
func (np NewProduct) product(now time.Time) Product {
	p := Product{
		ID:          np.ID,
		Name:        np.Name,
		Description: np.Description,
		Price:       np.Price,
		Stock:       DefaultStock,
		Category:    DefaultCategory,
		Active:      true,
		CreatedAt:   now,
	}
	if np.Stock != nil {
		p.Stock = *np.Stock
	}
	if np.Category != "" {
		p.Category = np.Category
	}
	if np.Active != nil {
		p.Active = *np.Active
	}
	return p
}
