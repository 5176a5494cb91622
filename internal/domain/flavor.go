package domain

import (
	"time"
)

// Flavor is the unit of inventory: each product flavor carries its own
// counters. The invariant reserved <= inventory is enforced on every write.
type Flavor struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"product_id"`
	Name              string    `json:"name"`
	Inventory         int       `json:"inventory"`
	ReservedInventory int       `json:"reserved_inventory"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Available returns purchasable units for the flavor, clamped at zero.
func (f *Flavor) Available() int {
	return available(f.Inventory, f.ReservedInventory)
}

// StockStatus derives the flavor's status. An inactive flavor always reports
// out_of_stock regardless of its counters, unlike the product-level status.
func (f *Flavor) StockStatus() StockStatus {
	if !f.Active {
		return StockStatusOutOfStock
	}
	return statusFor(f.Available(), f.LowStockThreshold)
}

// FlavorUpdate carries a partial update; nil fields keep their current value.
type FlavorUpdate struct {
	Name              *string `json:"name,omitempty"`
	Inventory         *int    `json:"inventory,omitempty"`
	ReservedInventory *int    `json:"reserved_inventory,omitempty"`
	LowStockThreshold *int    `json:"low_stock_threshold,omitempty"`
	Active            *bool   `json:"active,omitempty"`
}

// Apply merges the update into a copy of the flavor, so callers can validate
// the merged state before persisting.
func (u *FlavorUpdate) Apply(f Flavor) Flavor {
	if u.Name != nil {
		f.Name = *u.Name
	}
	if u.Inventory != nil {
		f.Inventory = *u.Inventory
	}
	if u.ReservedInventory != nil {
		f.ReservedInventory = *u.ReservedInventory
	}
	if u.LowStockThreshold != nil {
		f.LowStockThreshold = *u.LowStockThreshold
	}
	if u.Active != nil {
		f.Active = *u.Active
	}
	return f
}
