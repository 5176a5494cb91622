package domain

// StockStatus is the derived presentation state of a product or flavor.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// available computes sellable units from raw counters, clamped at zero so a
// reserved count that exceeds inventory never surfaces as negative
// availability to callers.
func available(inventory, reserved int) int {
	a := inventory - reserved
	if a < 0 {
		return 0
	}
	return a
}

// statusFor derives the stock status from an availability figure. The
// threshold boundary is inclusive: available == threshold is low_stock.
func statusFor(avail, threshold int) StockStatus {
	switch {
	case avail <= 0:
		return StockStatusOutOfStock
	case avail <= threshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// ProductAvailable returns the purchasable units for a product. When the
// product has flavor rows, availability is the sum over its active flavors
// and the product's own counters are ignored. Products without flavor rows
// fall back to their legacy product-level counters.
func ProductAvailable(p *Product, flavors []Flavor) int {
	if len(flavors) == 0 {
		return p.Available()
	}

	total := 0
	for i := range flavors {
		if flavors[i].Active {
			total += flavors[i].Available()
		}
	}
	return total
}

// ProductStockStatus rolls up per-flavor statuses into an aggregate product
// status, each flavor judged against its own threshold: out_of_stock when no
// active flavor has stock, low_stock when any active flavor is low, otherwise
// in_stock. Products without flavor rows fall back to their legacy counters.
// Note the asymmetry with Flavor.StockStatus: an inactive product still
// reports its stock-derived status; visibility is handled separately.
func ProductStockStatus(p *Product, flavors []Flavor) StockStatus {
	if len(flavors) == 0 {
		return p.StockStatus()
	}

	agg := StockStatusOutOfStock
	for i := range flavors {
		if !flavors[i].Active {
			continue
		}
		switch flavors[i].StockStatus() {
		case StockStatusLowStock:
			// Low stock on any flavor dominates the rollup.
			return StockStatusLowStock
		case StockStatusInStock:
			agg = StockStatusInStock
		}
	}
	return agg
}

// AvailableFlavors filters to flavors a customer can currently order:
// active with at least one available unit.
func AvailableFlavors(flavors []Flavor) []Flavor {
	out := make([]Flavor, 0, len(flavors))
	for i := range flavors {
		if flavors[i].Active && flavors[i].Available() > 0 {
			out = append(out, flavors[i])
		}
	}
	return out
}
