package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mistvale/storefront/internal/domain"
	"github.com/mistvale/storefront/internal/event"
	"github.com/mistvale/storefront/internal/repository"
	"github.com/mistvale/storefront/pkg/database"
	apperrors "github.com/mistvale/storefront/pkg/errors"
)

// OrderService implements checkout: flavor-level inventory reservation and
// sale lifecycle management.
type OrderService struct {
	pool     database.DBTX
	saleRepo repository.SaleRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	pool database.DBTX,
	saleRepo repository.SaleRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		pool:     pool,
		saleRepo: saleRepo,
		producer: producer,
		logger:   logger,
	}
}

// PlaceOrderInput holds the parameters for placing an order.
type PlaceOrderInput struct {
	Lines    []domain.CartLine
	Customer domain.Customer
}

// PlaceOrder reserves inventory for every cart line and records the sale.
// The whole cart is processed in a single transaction with row-level locks on
// the flavor rows, so concurrent checkouts cannot oversell and a failing line
// rolls back every reservation made before it.
func (s *OrderService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error) {
	if len(input.Lines) == 0 {
		return nil, apperrors.InvalidInput("cart must contain at least one line")
	}
	if input.Customer.Name == "" {
		return nil, apperrors.InvalidInput("customer name is required")
	}
	if input.Customer.Email == "" {
		return nil, apperrors.InvalidInput("customer email is required")
	}
	if input.Customer.ShippingAddress == "" {
		return nil, apperrors.InvalidInput("shipping address is required")
	}
	for _, line := range input.Lines {
		if line.ProductID == "" {
			return nil, apperrors.InvalidInput("product_id is required on every line")
		}
		if line.FlavorName == "" {
			return nil, apperrors.InvalidInput("flavor_name is required on every line")
		}
		if line.Quantity < 1 {
			return nil, apperrors.InvalidInput("quantity must be at least 1")
		}
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin order transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()

	var (
		orderLines []domain.OrderLine
		lowStock   []domain.Flavor
		totalCents int64
		totalQty   int
	)

	for _, line := range input.Lines {
		var (
			productName   string
			priceCents    int64
			productActive bool
		)
		productQuery := `
			SELECT name, price_cents, active
			FROM products
			WHERE id = $1`

		err := tx.QueryRow(ctx, productQuery, line.ProductID).Scan(&productName, &priceCents, &productActive)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NotFound("product", line.ProductID)
			}
			return nil, fmt.Errorf("get product for order line: %w", err)
		}
		if !productActive {
			return nil, apperrors.FlavorUnavailable(line.ProductID, line.FlavorName)
		}

		// Lock the flavor row with SELECT FOR UPDATE to prevent overselling.
		var flavor domain.Flavor
		lockQuery := `
			SELECT id, inventory, reserved_inventory, low_stock_threshold, active
			FROM flavors
			WHERE product_id = $1 AND name = $2
			FOR UPDATE`

		err = tx.QueryRow(ctx, lockQuery, line.ProductID, line.FlavorName).Scan(
			&flavor.ID,
			&flavor.Inventory,
			&flavor.ReservedInventory,
			&flavor.LowStockThreshold,
			&flavor.Active,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.FlavorUnavailable(line.ProductID, line.FlavorName)
			}
			return nil, fmt.Errorf("lock flavor for order line: %w", err)
		}
		if !flavor.Active {
			return nil, apperrors.FlavorUnavailable(line.ProductID, line.FlavorName)
		}

		available := flavor.Available()
		if available < line.Quantity {
			return nil, apperrors.InsufficientInventory(line.FlavorName, available, line.Quantity)
		}

		updateQuery := `
			UPDATE flavors
			SET reserved_inventory = reserved_inventory + $1, updated_at = NOW()
			WHERE id = $2`

		if _, err := tx.Exec(ctx, updateQuery, line.Quantity, flavor.ID); err != nil {
			return nil, fmt.Errorf("reserve flavor inventory: %w", err)
		}

		flavor.ProductID = line.ProductID
		flavor.Name = line.FlavorName
		flavor.ReservedInventory += line.Quantity
		if flavor.Available() <= flavor.LowStockThreshold {
			lowStock = append(lowStock, flavor)
		}

		orderLines = append(orderLines, domain.OrderLine{
			ProductID:      line.ProductID,
			ProductName:    productName,
			FlavorID:       flavor.ID,
			FlavorName:     line.FlavorName,
			Quantity:       line.Quantity,
			UnitPriceCents: priceCents,
		})
		totalCents += priceCents * int64(line.Quantity)
		totalQty += line.Quantity
	}

	// The sale row is anchored on the first line's product with the aggregate
	// quantity and a blended unit price. Line items are returned to the caller
	// but not persisted.
	sale := domain.Sale{
		ID:              uuid.New().String(),
		ProductID:       input.Lines[0].ProductID,
		Quantity:        totalQty,
		UnitPriceCents:  totalCents / int64(totalQty),
		TotalCents:      totalCents,
		CustomerName:    input.Customer.Name,
		CustomerEmail:   input.Customer.Email,
		CustomerPhone:   input.Customer.Phone,
		ShippingAddress: input.Customer.ShippingAddress,
		Status:          domain.SaleStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	insertQuery := `
		INSERT INTO sales (id, product_id, quantity, unit_price_cents, total_cents, customer_name, customer_email, customer_phone, shipping_address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = tx.Exec(ctx, insertQuery,
		sale.ID,
		sale.ProductID,
		sale.Quantity,
		sale.UnitPriceCents,
		sale.TotalCents,
		sale.CustomerName,
		sale.CustomerEmail,
		sale.CustomerPhone,
		sale.ShippingAddress,
		sale.Status,
		sale.CreatedAt,
		sale.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert sale record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit order transaction: %w", err)
	}

	order := &domain.Order{
		Sale:       sale,
		Lines:      orderLines,
		TotalCents: totalCents,
	}

	// Publish events outside of the transaction (non-blocking on failure).
	if err := s.producer.PublishOrderPlaced(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("sale_id", sale.ID),
			slog.String("error", err.Error()),
		)
	}
	for i := range lowStock {
		if err := s.producer.PublishStockLow(ctx, &lowStock[i]); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish inventory.low_stock event",
				slog.String("flavor_id", lowStock[i].ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("sale_id", sale.ID),
		slog.Int("line_count", len(orderLines)),
		slog.Int64("total_cents", totalCents),
	)

	return order, nil
}

// GetSale retrieves a sale by ID.
func (s *OrderService) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return sale, nil
}

// ListSales returns a page of sales, optionally filtered by status.
func (s *OrderService) ListSales(ctx context.Context, status string, page, perPage int) ([]domain.Sale, int, error) {
	if status != "" && !domain.IsValidSaleStatus(status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid sale status %q", status))
	}

	sales, total, err := s.saleRepo.List(ctx, status, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}

	return sales, total, nil
}

// UpdateSaleStatus moves a sale through its lifecycle. Only pending sales may
// transition, to completed or cancelled. Completing a sale does not decrement
// inventory counters; line items are not persisted, so per-flavor fulfillment
// is not tracked.
func (s *OrderService) UpdateSaleStatus(ctx context.Context, id, status string) (*domain.Sale, error) {
	if !domain.IsValidSaleStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid sale status %q", status))
	}

	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get sale for status update: %w", err)
	}

	if !sale.CanTransitionTo(status) {
		return nil, apperrors.Conflict(fmt.Sprintf("sale cannot transition from %s to %s", sale.Status, status))
	}

	if err := s.saleRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update sale status: %w", err)
	}

	oldStatus := sale.Status
	sale.Status = status
	sale.UpdatedAt = time.Now().UTC()

	if err := s.producer.PublishOrderStatusChanged(ctx, id, oldStatus, status); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("sale_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "sale status updated",
		slog.String("sale_id", id),
		slog.String("old_status", oldStatus),
		slog.String("new_status", status),
	)

	return sale, nil
}
