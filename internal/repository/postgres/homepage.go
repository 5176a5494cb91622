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

// HomepageRepository implements repository.HomepageRepository using PostgreSQL.
// Section content is stored as JSONB and never interpreted by the backend.
type HomepageRepository struct {
	pool database.DBTX
}

// NewHomepageRepository creates a new PostgreSQL-backed homepage repository.
func NewHomepageRepository(pool database.DBTX) *HomepageRepository {
	return &HomepageRepository{pool: pool}
}

// Get retrieves a homepage section by key.
func (r *HomepageRepository) Get(ctx context.Context, key string) (*domain.HomepageSection, error) {
	query := `
		SELECT key, content, updated_at
		FROM homepage_sections
		WHERE key = $1`

	var s domain.HomepageSection
	err := r.pool.QueryRow(ctx, query, key).Scan(&s.Key, &s.Content, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("homepage section", key)
		}
		return nil, fmt.Errorf("get homepage section: %w", err)
	}

	return &s, nil
}

// Upsert creates or replaces a homepage section.
func (r *HomepageRepository) Upsert(ctx context.Context, s *domain.HomepageSection) error {
	query := `
		INSERT INTO homepage_sections (key, content, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query, s.Key, s.Content, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert homepage section: %w", err)
	}

	return nil
}

// ListKeys returns all section keys.
func (r *HomepageRepository) ListKeys(ctx context.Context) ([]string, error) {
	query := `SELECT key FROM homepage_sections ORDER BY key`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list homepage section keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan homepage section key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate homepage section keys: %w", err)
	}

	return keys, nil
}
