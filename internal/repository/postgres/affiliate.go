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

const affiliateColumns = `id, name, email, code, commission_bps, status, created_at, updated_at`

// AffiliateRepository implements repository.AffiliateRepository using PostgreSQL.
type AffiliateRepository struct {
	pool database.DBTX
}

// NewAffiliateRepository creates a new PostgreSQL-backed affiliate repository.
func NewAffiliateRepository(pool database.DBTX) *AffiliateRepository {
	return &AffiliateRepository{pool: pool}
}

// Create inserts a new affiliate application.
func (r *AffiliateRepository) Create(ctx context.Context, a *domain.Affiliate) error {
	query := `
		INSERT INTO affiliates (` + affiliateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.Name,
		a.Email,
		a.Code,
		a.CommissionBps,
		a.Status,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("affiliate", "email or code", a.Email)
		}
		return fmt.Errorf("insert affiliate: %w", err)
	}

	return nil
}

// GetByID retrieves an affiliate by its ID.
func (r *AffiliateRepository) GetByID(ctx context.Context, id string) (*domain.Affiliate, error) {
	query := `
		SELECT ` + affiliateColumns + `
		FROM affiliates
		WHERE id = $1`

	return r.scanAffiliate(ctx, query, id)
}

// GetByCode retrieves an affiliate by referral code.
func (r *AffiliateRepository) GetByCode(ctx context.Context, code string) (*domain.Affiliate, error) {
	query := `
		SELECT ` + affiliateColumns + `
		FROM affiliates
		WHERE code = $1`

	return r.scanAffiliate(ctx, query, code)
}

// List returns a page of affiliates, optionally filtered by status.
func (r *AffiliateRepository) List(ctx context.Context, status string, page, perPage int) ([]domain.Affiliate, int, error) {
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
		SELECT `+affiliateColumns+`,
			   count(*) OVER() AS total_count
		FROM affiliates
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)

	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list affiliates: %w", err)
	}
	defer rows.Close()

	var (
		affiliates []domain.Affiliate
		totalCount int
	)

	for rows.Next() {
		var a domain.Affiliate
		if err := rows.Scan(
			&a.ID,
			&a.Name,
			&a.Email,
			&a.Code,
			&a.CommissionBps,
			&a.Status,
			&a.CreatedAt,
			&a.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan affiliate row: %w", err)
		}
		affiliates = append(affiliates, a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate affiliate rows: %w", err)
	}

	if affiliates == nil {
		affiliates = []domain.Affiliate{}
	}

	return affiliates, totalCount, nil
}

// UpdateStatus moves an affiliate to the given status.
func (r *AffiliateRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE affiliates
		SET status = $1, updated_at = now()
		WHERE id = $2`

	ct, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update affiliate status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("affiliate", id)
	}

	return nil
}

func (r *AffiliateRepository) scanAffiliate(ctx context.Context, query string, arg any) (*domain.Affiliate, error) {
	var a domain.Affiliate
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.Code,
		&a.CommissionBps,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("affiliate", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("get affiliate: %w", err)
	}

	return &a, nil
}
