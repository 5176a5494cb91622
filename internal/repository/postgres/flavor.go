package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mistvale/storefront/internal/domain"
	"github.com/mistvale/storefront/pkg/database"
	apperrors "github.com/mistvale/storefront/pkg/errors"
)

const flavorColumns = `id, product_id, name, inventory, reserved_inventory, low_stock_threshold, active, created_at, updated_at`

// FlavorRepository implements repository.FlavorRepository using PostgreSQL.
type FlavorRepository struct {
	pool database.DBTX
}

// NewFlavorRepository creates a new PostgreSQL-backed flavor repository.
func NewFlavorRepository(pool database.DBTX) *FlavorRepository {
	return &FlavorRepository{pool: pool}
}

// Pool exposes the underlying connection for transactional callers.
func (r *FlavorRepository) Pool() database.DBTX {
	return r.pool
}

// Create inserts a new flavor for a product.
func (r *FlavorRepository) Create(ctx context.Context, f *domain.Flavor) error {
	query := `
		INSERT INTO flavors (` + flavorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		f.ID,
		f.ProductID,
		f.Name,
		f.Inventory,
		f.ReservedInventory,
		f.LowStockThreshold,
		f.Active,
		f.CreatedAt,
		f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("flavor", "name", f.Name)
		}
		return fmt.Errorf("insert flavor: %w", err)
	}

	return nil
}

// GetByID retrieves a flavor by its ID.
func (r *FlavorRepository) GetByID(ctx context.Context, id string) (*domain.Flavor, error) {
	query := `
		SELECT ` + flavorColumns + `
		FROM flavors
		WHERE id = $1`

	var f domain.Flavor
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&f.ID,
		&f.ProductID,
		&f.Name,
		&f.Inventory,
		&f.ReservedInventory,
		&f.LowStockThreshold,
		&f.Active,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("flavor", id)
		}
		return nil, fmt.Errorf("get flavor: %w", err)
	}

	return &f, nil
}

// ListByProduct returns all flavors for a product ordered by name.
func (r *FlavorRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Flavor, error) {
	query := `
		SELECT ` + flavorColumns + `
		FROM flavors
		WHERE product_id = $1
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list flavors: %w", err)
	}
	defer rows.Close()

	return collectFlavors(rows)
}

// ListByProducts returns flavors for multiple products keyed by product ID.
// One query feeds the whole catalog page.
func (r *FlavorRepository) ListByProducts(ctx context.Context, productIDs []string) (map[string][]domain.Flavor, error) {
	result := make(map[string][]domain.Flavor, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT ` + flavorColumns + `
		FROM flavors
		WHERE product_id = ANY($1)
		ORDER BY product_id, name`

	rows, err := r.pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("list flavors by products: %w", err)
	}
	defer rows.Close()

	flavors, err := collectFlavors(rows)
	if err != nil {
		return nil, err
	}

	for _, f := range flavors {
		result[f.ProductID] = append(result[f.ProductID], f)
	}

	return result, nil
}

// Update persists all mutable flavor fields.
func (r *FlavorRepository) Update(ctx context.Context, f *domain.Flavor) error {
	query := `
		UPDATE flavors
		SET name = $1, inventory = $2, reserved_inventory = $3,
			low_stock_threshold = $4, active = $5, updated_at = $6
		WHERE id = $7`

	ct, err := r.pool.Exec(ctx, query,
		f.Name,
		f.Inventory,
		f.ReservedInventory,
		f.LowStockThreshold,
		f.Active,
		f.UpdatedAt,
		f.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("flavor", "name", f.Name)
		}
		return fmt.Errorf("update flavor: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("flavor", f.ID)
	}

	return nil
}

// Delete removes a flavor unconditionally.
func (r *FlavorRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM flavors WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete flavor: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("flavor", id)
	}

	return nil
}

// ListLowStock returns active flavors whose availability is at or below their
// threshold, most depleted first.
func (r *FlavorRepository) ListLowStock(ctx context.Context, page, perPage int) ([]domain.Flavor, int, error) {
	if perPage <= 0 {
		perPage = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * perPage
	}

	// GREATEST mirrors the clamped availability used everywhere else.
	query := `
		SELECT ` + flavorColumns + `,
			   count(*) OVER() AS total_count
		FROM flavors
		WHERE active = TRUE
		  AND GREATEST(inventory - reserved_inventory, 0) <= low_stock_threshold
		ORDER BY GREATEST(inventory - reserved_inventory, 0) ASC, name
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list low stock flavors: %w", err)
	}
	defer rows.Close()

	var (
		flavors    []domain.Flavor
		totalCount int
	)

	for rows.Next() {
		var f domain.Flavor
		if err := rows.Scan(
			&f.ID,
			&f.ProductID,
			&f.Name,
			&f.Inventory,
			&f.ReservedInventory,
			&f.LowStockThreshold,
			&f.Active,
			&f.CreatedAt,
			&f.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan flavor row: %w", err)
		}
		flavors = append(flavors, f)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate flavor rows: %w", err)
	}

	if flavors == nil {
		flavors = []domain.Flavor{}
	}

	return flavors, totalCount, nil
}

func collectFlavors(rows pgx.Rows) ([]domain.Flavor, error) {
	var flavors []domain.Flavor

	for rows.Next() {
		var f domain.Flavor
		if err := rows.Scan(
			&f.ID,
			&f.ProductID,
			&f.Name,
			&f.Inventory,
			&f.ReservedInventory,
			&f.LowStockThreshold,
			&f.Active,
			&f.CreatedAt,
			&f.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan flavor row: %w", err)
		}
		flavors = append(flavors, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flavor rows: %w", err)
	}

	if flavors == nil {
		flavors = []domain.Flavor{}
	}

	return flavors, nil
}
