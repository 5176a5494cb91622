package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mistvale/storefront/internal/domain"
	"github.com/mistvale/storefront/internal/event"
	"github.com/mistvale/storefront/internal/repository"
	apperrors "github.com/mistvale/storefront/pkg/errors"
)

// InventoryService implements flavor-level inventory management. All counter
// invariants are validated here against the merged state, so handlers and
// repositories never re-implement the checks.
type InventoryService struct {
	flavorRepo  repository.FlavorRepository
	productRepo repository.ProductRepository
	producer    *event.Producer
	logger      *slog.Logger
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(
	flavorRepo repository.FlavorRepository,
	productRepo repository.ProductRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *InventoryService {
	return &InventoryService{
		flavorRepo:  flavorRepo,
		productRepo: productRepo,
		producer:    producer,
		logger:      logger,
	}
}

// CreateFlavorInput holds the parameters for creating a flavor.
type CreateFlavorInput struct {
	ProductID         string
	Name              string
	Inventory         int
	ReservedInventory int
	LowStockThreshold int
	Active            bool
}

// CreateFlavor adds a flavor to a product.
func (s *InventoryService) CreateFlavor(ctx context.Context, input CreateFlavorInput) (*domain.Flavor, error) {
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if err := validateCounters(input.Inventory, input.ReservedInventory, input.LowStockThreshold); err != nil {
		return nil, err
	}

	if _, err := s.productRepo.GetByID(ctx, input.ProductID); err != nil {
		return nil, fmt.Errorf("get product for flavor: %w", err)
	}

	now := time.Now().UTC()
	flavor := &domain.Flavor{
		ID:                uuid.New().String(),
		ProductID:         input.ProductID,
		Name:              input.Name,
		Inventory:         input.Inventory,
		ReservedInventory: input.ReservedInventory,
		LowStockThreshold: input.LowStockThreshold,
		Active:            input.Active,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.flavorRepo.Create(ctx, flavor); err != nil {
		return nil, fmt.Errorf("create flavor: %w", err)
	}

	s.logger.InfoContext(ctx, "flavor created",
		slog.String("flavor_id", flavor.ID),
		slog.String("product_id", flavor.ProductID),
		slog.String("name", flavor.Name),
	)

	return flavor, nil
}

// GetFlavor retrieves a flavor by ID.
func (s *InventoryService) GetFlavor(ctx context.Context, id string) (*domain.Flavor, error) {
	flavor, err := s.flavorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get flavor: %w", err)
	}
	return flavor, nil
}

// ListFlavors returns all flavors for a product.
func (s *InventoryService) ListFlavors(ctx context.Context, productID string) ([]domain.Flavor, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("get product for flavors: %w", err)
	}

	flavors, err := s.flavorRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list flavors: %w", err)
	}

	return flavors, nil
}

// UpdateFlavor applies a partial update. The counter invariants are validated
// against the merged state: a request that only raises reserved_inventory is
// rejected when the stored inventory cannot cover it.
func (s *InventoryService) UpdateFlavor(ctx context.Context, id string, update domain.FlavorUpdate) (*domain.Flavor, error) {
	flavor, err := s.flavorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get flavor for update: %w", err)
	}

	if update.Name != nil && *update.Name == "" {
		return nil, apperrors.InvalidInput("name must not be empty")
	}

	merged := update.Apply(*flavor)
	if err := validateCounters(merged.Inventory, merged.ReservedInventory, merged.LowStockThreshold); err != nil {
		return nil, err
	}

	merged.UpdatedAt = time.Now().UTC()
	if err := s.flavorRepo.Update(ctx, &merged); err != nil {
		return nil, fmt.Errorf("update flavor: %w", err)
	}

	if merged.Active && merged.Available() <= merged.LowStockThreshold {
		if err := s.producer.PublishStockLow(ctx, &merged); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish inventory.low_stock event",
				slog.String("flavor_id", merged.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "flavor updated",
		slog.String("flavor_id", merged.ID),
		slog.Int("available", merged.Available()),
	)

	return &merged, nil
}

// DeleteFlavor removes a flavor unconditionally, reserved stock included.
func (s *InventoryService) DeleteFlavor(ctx context.Context, id string) error {
	if err := s.flavorRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete flavor: %w", err)
	}

	s.logger.InfoContext(ctx, "flavor deleted",
		slog.String("flavor_id", id),
	)

	return nil
}

// ListLowStock returns active flavors at or below their threshold for the
// admin dashboard, most depleted first.
func (s *InventoryService) ListLowStock(ctx context.Context, page, perPage int) ([]domain.Flavor, int, error) {
	flavors, total, err := s.flavorRepo.ListLowStock(ctx, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list low stock flavors: %w", err)
	}

	return flavors, total, nil
}
