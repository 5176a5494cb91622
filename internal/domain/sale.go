package domain

import (
	"time"
)

// Sale statuses.
const (
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
)

// Sale is the persisted record of a placed order. It is anchored on the
// first cart line's product and stores the aggregate quantity with a blended
// unit price; individual lines are returned to the caller but not persisted.
type Sale struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	Quantity        int       `json:"quantity"`
	UnitPriceCents  int64     `json:"unit_price_cents"`
	TotalCents      int64     `json:"total_cents"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerPhone   string    `json:"customer_phone,omitempty"`
	ShippingAddress string    `json:"shipping_address"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ValidSaleStatuses returns the set of valid sale statuses.
func ValidSaleStatuses() []string {
	return []string{SaleStatusPending, SaleStatusCompleted, SaleStatusCancelled}
}

// IsValidSaleStatus checks whether the given status is a valid sale status.
func IsValidSaleStatus(status string) bool {
	for _, s := range ValidSaleStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the sale may move to the target status.
// Pending sales may complete or cancel; completed and cancelled are terminal.
func (s *Sale) CanTransitionTo(target string) bool {
	if s.Status != SaleStatusPending {
		return false
	}
	return target == SaleStatusCompleted || target == SaleStatusCancelled
}

// CartLine is one storefront cart entry: a flavor of a product, by name.
type CartLine struct {
	ProductID  string `json:"product_id"`
	FlavorName string `json:"flavor_name"`
	Quantity   int    `json:"quantity"`
}

// OrderLine is a resolved, reserved cart line returned to the caller after
// an order is placed.
type OrderLine struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	FlavorID       string `json:"flavor_id"`
	FlavorName     string `json:"flavor_name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// Order is the result of placing an order: the persisted sale plus the
// resolved lines and the cart total.
type Order struct {
	Sale       Sale        `json:"sale"`
	Lines      []OrderLine `json:"lines"`
	TotalCents int64       `json:"total_cents"`
}

// Customer carries the contact and shipping details captured at checkout.
type Customer struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	ShippingAddress string `json:"shipping_address"`
}
