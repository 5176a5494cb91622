package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mistvale/storefront/internal/domain"
	"github.com/mistvale/storefront/internal/repository"
	apperrors "github.com/mistvale/storefront/pkg/errors"
)

// HomepageService serves admin-editable homepage sections with a Redis
// cache-aside read path. Content is opaque JSON; the backend never interprets
// its shape.
type HomepageService struct {
	homepageRepo repository.HomepageRepository
	cache        repository.HomepageCache
	logger       *slog.Logger
}

// NewHomepageService creates a new homepage content service.
func NewHomepageService(
	homepageRepo repository.HomepageRepository,
	cache repository.HomepageCache,
	logger *slog.Logger,
) *HomepageService {
	return &HomepageService{
		homepageRepo: homepageRepo,
		cache:        cache,
		logger:       logger,
	}
}

// GetSection returns a homepage section, served from cache when possible.
// Cache errors fall through to the database rather than failing the read.
func (s *HomepageService) GetSection(ctx context.Context, key string) (*domain.HomepageSection, error) {
	if key == "" {
		return nil, apperrors.InvalidInput("section key is required")
	}

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "homepage cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	if cached != nil {
		return cached, nil
	}

	section, err := s.homepageRepo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get homepage section: %w", err)
	}

	if err := s.cache.Set(ctx, section); err != nil {
		s.logger.WarnContext(ctx, "homepage cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	return section, nil
}

// UpsertSection creates or replaces a section and invalidates its cache entry.
func (s *HomepageService) UpsertSection(ctx context.Context, key string, content json.RawMessage) (*domain.HomepageSection, error) {
	if key == "" {
		return nil, apperrors.InvalidInput("section key is required")
	}
	if len(content) == 0 || !json.Valid(content) {
		return nil, apperrors.InvalidInput("content must be valid JSON")
	}

	section := &domain.HomepageSection{
		Key:       key,
		Content:   content,
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.homepageRepo.Upsert(ctx, section); err != nil {
		return nil, fmt.Errorf("upsert homepage section: %w", err)
	}

	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "homepage cache invalidation failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "homepage section updated",
		slog.String("key", key),
	)

	return section, nil
}

// ListSectionKeys returns all section keys for the admin editor.
func (s *HomepageService) ListSectionKeys(ctx context.Context) ([]string, error) {
	keys, err := s.homepageRepo.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list homepage section keys: %w", err)
	}

	return keys, nil
}
