package auth

import "fmt"

// Role is the account role carried in the token. Authorization decisions
// go through the capability table below rather than comparing role strings
// at every call site.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCashier  Role = "cashier"
	RoleCustomer Role = "customer"
)

// Capability names a permitted action group.
type Capability string

const (
	CapManageCatalog Capability = "manage_catalog"
	CapManageOffers  Capability = "manage_offers"
	CapManageUsers   Capability = "manage_users"
	CapManageOrders  Capability = "manage_orders"
	CapPlaceOrders   Capability = "place_orders"
	CapUseCart       Capability = "use_cart"
	CapViewReports   Capability = "view_reports"
	CapExportData    Capability = "export_data"
)

var capabilities = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapManageCatalog: true,
		CapManageOffers:  true,
		CapManageUsers:   true,
		CapManageOrders:  true,
		CapPlaceOrders:   true,
		CapUseCart:       true,
		CapViewReports:   true,
		CapExportData:    true,
	},
	RoleCashier: {
		CapManageOrders: true,
		CapPlaceOrders:  true,
		CapUseCart:      true,
		CapViewReports:  true,
	},
	RoleCustomer: {
		CapPlaceOrders: true,
		CapUseCart:     true,
	},
}

// Can reports whether the role holds the capability.
func (r Role) Can(c Capability) bool {
	return capabilities[r][c]
}

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleCashier, RoleCustomer:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}
