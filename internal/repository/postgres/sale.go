package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/mistvale/storefront/internal/domain"
	"github.com/mistvale/storefront/pkg/database"
	apperrors "github.com/mistvale/storefront/pkg/errors"
)

const saleColumns = `id, product_id, quantity, unit_price_cents, total_cents, customer_name, customer_email, customer_phone, shipping_address, status, created_at, updated_at`

// SaleRepository implements repository.SaleRepository using PostgreSQL.
type SaleRepository struct {
	pool database.DBTX
}

// NewSaleRepository creates a new PostgreSQL-backed sale repository.
func NewSaleRepository(pool database.DBTX) *SaleRepository {
	return &SaleRepository{pool: pool}
}

// Create inserts a new sale record.
func (r *SaleRepository) Create(ctx context.Context, s *domain.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		s.ID,
		s.ProductID,
		s.Quantity,
		s.UnitPriceCents,
		s.TotalCents,
		s.CustomerName,
		s.CustomerEmail,
		s.CustomerPhone,
		s.ShippingAddress,
		s.Status,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	return nil
}

// GetByID retrieves a sale by its ID.
func (r *SaleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE id = $1`

	var s domain.Sale
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.ProductID,
		&s.Quantity,
		&s.UnitPriceCents,
		&s.TotalCents,
		&s.CustomerName,
		&s.CustomerEmail,
		&s.CustomerPhone,
		&s.ShippingAddress,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("sale", id)
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	return &s, nil
}

// List returns a page of sales, optionally filtered by status, newest first.
func (r *SaleRepository) List(ctx context.Context, status string, page, perPage int) ([]domain.Sale, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, status)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	if perPage <= 0 {
		perPage = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * perPage
	}

	query := fmt.Sprintf(`
		SELECT `+saleColumns+`,
			   count(*) OVER() AS total_count
		FROM sales
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)

	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var (
		sales      []domain.Sale
		totalCount int
	)

	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(
			&s.ID,
			&s.ProductID,
			&s.Quantity,
			&s.UnitPriceCents,
			&s.TotalCents,
			&s.CustomerName,
			&s.CustomerEmail,
			&s.CustomerPhone,
			&s.ShippingAddress,
			&s.Status,
			&s.CreatedAt,
			&s.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan sale row: %w", err)
		}
		sales = append(sales, s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate sale rows: %w", err)
	}

	if sales == nil {
		sales = []domain.Sale{}
	}

	return sales, totalCount, nil
}

// UpdateStatus moves a sale to the given status.
func (r *SaleRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE sales
		SET status = $1, updated_at = now()
		WHERE id = $2`

	ct, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("sale", id)
	}

	return nil
}

// CountByProduct returns the number of sales referencing a product.
func (r *SaleRepository) CountByProduct(ctx context.Context, productID string) (int, error) {
	query := `SELECT count(*) FROM sales WHERE product_id = $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, productID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sales by product: %w", err)
	}

	return count, nil
}
