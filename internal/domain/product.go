package domain

import (
	"time"
)

// Product represents a catalog item (a disposable vape model). Flavor-level
// stock lives in Flavor rows; the product-level counters remain for items
// created before flavors carried their own inventory.
type Product struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Slug              string    `json:"slug"`
	Description       string    `json:"description"`
	PriceCents        int64     `json:"price_cents"`
	Puffs             int       `json:"puffs"`
	LegacyFlavors     []string  `json:"legacy_flavors,omitempty"`
	Inventory         int       `json:"inventory"`
	ReservedInventory int       `json:"reserved_inventory"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	Active            bool      `json:"active"`
	ShowOnHomepage    bool      `json:"show_on_homepage"`
	ImageURL          string    `json:"image_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Available returns the product-level purchasable units (legacy counters),
// clamped at zero.
func (p *Product) Available() int {
	return available(p.Inventory, p.ReservedInventory)
}

// StockStatus derives the status from the product's own counters. Active is
// deliberately not consulted here; inactive products are excluded from the
// catalog by the listing query instead.
func (p *Product) StockStatus() StockStatus {
	return statusFor(p.Available(), p.LowStockThreshold)
}

// ProductWithStock is a product joined with its flavors and derived fields,
// as returned by catalog reads.
type ProductWithStock struct {
	Product
	Flavors          []Flavor    `json:"flavors"`
	TotalAvailable   int         `json:"total_available"`
	Status           StockStatus `json:"status"`
	AvailableFlavors []Flavor    `json:"available_flavors"`
}

// NewProductWithStock computes the derived catalog view for a product.
func NewProductWithStock(p Product, flavors []Flavor) ProductWithStock {
	if flavors == nil {
		flavors = []Flavor{}
	}
	return ProductWithStock{
		Product:          p,
		Flavors:          flavors,
		TotalAvailable:   ProductAvailable(&p, flavors),
		Status:           ProductStockStatus(&p, flavors),
		AvailableFlavors: AvailableFlavors(flavors),
	}
}

// Purchasable reports whether the product can appear on the storefront:
// at least one orderable flavor, or legacy product-level availability when
// no flavor rows exist.
func (pw *ProductWithStock) Purchasable() bool {
	if len(pw.Flavors) > 0 {
		return len(pw.AvailableFlavors) > 0
	}
	return pw.Product.Available() > 0
}
