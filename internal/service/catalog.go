package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mistvale/storefront/internal/domain"
	"github.com/mistvale/storefront/internal/repository"
	apperrors "github.com/mistvale/storefront/pkg/errors"
	"github.com/mistvale/storefront/pkg/slug"
)

// CatalogService implements product management and the public catalog view
// with flavor-level availability rolled up to product level.
type CatalogService struct {
	productRepo repository.ProductRepository
	flavorRepo  repository.FlavorRepository
	saleRepo    repository.SaleRepository
	logger      *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	productRepo repository.ProductRepository,
	flavorRepo repository.FlavorRepository,
	saleRepo repository.SaleRepository,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		flavorRepo:  flavorRepo,
		saleRepo:    saleRepo,
		logger:      logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name              string
	Description       string
	PriceCents        int64
	Puffs             int
	LegacyFlavors     []string
	Inventory         int
	ReservedInventory int
	LowStockThreshold int
	Active            bool
	ShowOnHomepage    bool
	ImageURL          string
}

// UpdateProductInput holds a partial product update; nil fields keep their
// current value.
type UpdateProductInput struct {
	Name              *string
	Description       *string
	PriceCents        *int64
	Puffs             *int
	LegacyFlavors     []string
	Inventory         *int
	ReservedInventory *int
	LowStockThreshold *int
	Active            *bool
	ShowOnHomepage    *bool
	ImageURL          *string
}

// CatalogFilter narrows the public catalog listing.
type CatalogFilter struct {
	Search       string
	HomepageOnly bool
}

// CreateProduct creates a new product with a slug derived from the name.
func (s *CatalogService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.PriceCents <= 0 {
		return nil, apperrors.InvalidInput("price must be positive")
	}
	if err := validateCounters(input.Inventory, input.ReservedInventory, input.LowStockThreshold); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:                uuid.New().String(),
		Name:              input.Name,
		Slug:              slug.Generate(input.Name),
		Description:       input.Description,
		PriceCents:        input.PriceCents,
		Puffs:             input.Puffs,
		LegacyFlavors:     input.LegacyFlavors,
		Inventory:         input.Inventory,
		ReservedInventory: input.ReservedInventory,
		LowStockThreshold: input.LowStockThreshold,
		Active:            input.Active,
		ShowOnHomepage:    input.ShowOnHomepage,
		ImageURL:          input.ImageURL,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if product.LegacyFlavors == nil {
		product.LegacyFlavors = []string{}
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// GetProduct retrieves a product with its flavors and derived stock fields.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.ProductWithStock, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return s.withStock(ctx, product)
}

// GetProductBySlug retrieves a product by slug with derived stock fields.
func (s *CatalogService) GetProductBySlug(ctx context.Context, productSlug string) (*domain.ProductWithStock, error) {
	product, err := s.productRepo.GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}

	return s.withStock(ctx, product)
}

// ListProducts returns a page of products with derived stock fields for the
// admin dashboard. Inactive products are included.
func (s *CatalogService) ListProducts(ctx context.Context, search string, page, perPage int) ([]domain.ProductWithStock, int, error) {
	filter := repository.ProductFilter{Search: search}

	products, total, err := s.productRepo.List(ctx, filter, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	enriched, err := s.enrich(ctx, products)
	if err != nil {
		return nil, 0, err
	}

	return enriched, total, nil
}

// ListCatalog returns the public storefront catalog: active products that are
// purchasable, with availability aggregated over their active flavors. The
// returned total counts matching active products before the purchasability
// filter.
func (s *CatalogService) ListCatalog(ctx context.Context, filter CatalogFilter, page, perPage int) ([]domain.ProductWithStock, int, error) {
	repoFilter := repository.ProductFilter{
		Search:       filter.Search,
		ActiveOnly:   true,
		HomepageOnly: filter.HomepageOnly,
	}

	products, total, err := s.productRepo.List(ctx, repoFilter, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list catalog products: %w", err)
	}

	enriched, err := s.enrich(ctx, products)
	if err != nil {
		return nil, 0, err
	}

	visible := make([]domain.ProductWithStock, 0, len(enriched))
	for _, pw := range enriched {
		if pw.Purchasable() {
			visible = append(visible, pw)
		}
	}

	return visible, total, nil
}

// UpdateProduct applies a partial update. Renaming regenerates the slug.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("name must not be empty")
		}
		product.Name = *input.Name
		product.Slug = slug.Generate(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.PriceCents != nil {
		if *input.PriceCents <= 0 {
			return nil, apperrors.InvalidInput("price must be positive")
		}
		product.PriceCents = *input.PriceCents
	}
	if input.Puffs != nil {
		product.Puffs = *input.Puffs
	}
	if input.LegacyFlavors != nil {
		product.LegacyFlavors = input.LegacyFlavors
	}
	if input.Inventory != nil {
		product.Inventory = *input.Inventory
	}
	if input.ReservedInventory != nil {
		product.ReservedInventory = *input.ReservedInventory
	}
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = *input.LowStockThreshold
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if input.ShowOnHomepage != nil {
		product.ShowOnHomepage = *input.ShowOnHomepage
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}

	// Validate the merged state, not just the changed fields.
	if err := validateCounters(product.Inventory, product.ReservedInventory, product.LowStockThreshold); err != nil {
		return nil, err
	}

	product.UpdatedAt = time.Now().UTC()
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
	)

	return product, nil
}

// DeleteProduct removes a product unless sales reference it, in which case
// the caller should deactivate instead.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get product for delete: %w", err)
	}

	count, err := s.saleRepo.CountByProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("count sales for product: %w", err)
	}
	if count > 0 {
		return apperrors.Conflict(fmt.Sprintf("product has %d recorded sales; deactivate it instead", count))
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}

func (s *CatalogService) withStock(ctx context.Context, product *domain.Product) (*domain.ProductWithStock, error) {
	flavors, err := s.flavorRepo.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("list flavors for product: %w", err)
	}

	pw := domain.NewProductWithStock(*product, flavors)
	return &pw, nil
}

// enrich attaches flavors and derived stock fields to a product page using a
// single batch flavor query.
func (s *CatalogService) enrich(ctx context.Context, products []domain.Product) ([]domain.ProductWithStock, error) {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	flavorsByProduct, err := s.flavorRepo.ListByProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list flavors for products: %w", err)
	}

	enriched := make([]domain.ProductWithStock, len(products))
	for i, p := range products {
		enriched[i] = domain.NewProductWithStock(p, flavorsByProduct[p.ID])
	}

	return enriched, nil
}

// validateCounters enforces the shared counter invariants on products and
// flavors.
func validateCounters(inventory, reserved, threshold int) error {
	if inventory < 0 {
		return apperrors.InvalidInput("inventory must not be negative")
	}
	if reserved < 0 {
		return apperrors.InvalidInput("reserved inventory must not be negative")
	}
	if threshold < 0 {
		return apperrors.InvalidInput("low stock threshold must not be negative")
	}
	if reserved > inventory {
		return apperrors.InvalidInput("reserved inventory must not exceed inventory")
	}
	return nil
}
