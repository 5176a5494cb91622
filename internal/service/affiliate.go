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

// defaultCommissionBps is the commission rate assigned to new affiliates.
const defaultCommissionBps = 500

// AffiliateService implements the affiliate program: public applications and
// admin approval.
type AffiliateService struct {
	affiliateRepo repository.AffiliateRepository
	logger        *slog.Logger
}

// NewAffiliateService creates a new affiliate service.
func NewAffiliateService(affiliateRepo repository.AffiliateRepository, logger *slog.Logger) *AffiliateService {
	return &AffiliateService{
		affiliateRepo: affiliateRepo,
		logger:        logger,
	}
}

// ApplyInput holds the parameters for an affiliate application.
type ApplyInput struct {
	Name  string
	Email string
}

// Apply registers a pending affiliate application with a referral code
// derived from the applicant's name.
func (s *AffiliateService) Apply(ctx context.Context, input ApplyInput) (*domain.Affiliate, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}

	now := time.Now().UTC()
	affiliate := &domain.Affiliate{
		ID:            uuid.New().String(),
		Name:          input.Name,
		Email:         input.Email,
		Code:          slug.Generate(input.Name),
		CommissionBps: defaultCommissionBps,
		Status:        domain.AffiliateStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.affiliateRepo.Create(ctx, affiliate); err != nil {
		return nil, fmt.Errorf("create affiliate: %w", err)
	}

	s.logger.InfoContext(ctx, "affiliate application received",
		slog.String("affiliate_id", affiliate.ID),
		slog.String("code", affiliate.Code),
	)

	return affiliate, nil
}

// GetAffiliate retrieves an affiliate by ID.
func (s *AffiliateService) GetAffiliate(ctx context.Context, id string) (*domain.Affiliate, error) {
	affiliate, err := s.affiliateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get affiliate: %w", err)
	}
	return affiliate, nil
}

// GetByCode retrieves an approved affiliate by referral code. Pending and
// suspended affiliates are not resolvable through their code.
func (s *AffiliateService) GetByCode(ctx context.Context, code string) (*domain.Affiliate, error) {
	affiliate, err := s.affiliateRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get affiliate by code: %w", err)
	}

	if affiliate.Status != domain.AffiliateStatusApproved {
		return nil, apperrors.NotFound("affiliate", code)
	}

	return affiliate, nil
}

// ListAffiliates returns a page of affiliates, optionally filtered by status.
func (s *AffiliateService) ListAffiliates(ctx context.Context, status string, page, perPage int) ([]domain.Affiliate, int, error) {
	if status != "" && !domain.IsValidAffiliateStatus(status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid affiliate status %q", status))
	}

	affiliates, total, err := s.affiliateRepo.List(ctx, status, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list affiliates: %w", err)
	}

	return affiliates, total, nil
}

// UpdateStatus moves an affiliate to the given status.
func (s *AffiliateService) UpdateStatus(ctx context.Context, id, status string) (*domain.Affiliate, error) {
	if !domain.IsValidAffiliateStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid affiliate status %q", status))
	}

	affiliate, err := s.affiliateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get affiliate for status update: %w", err)
	}

	if err := s.affiliateRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update affiliate status: %w", err)
	}

	s.logger.InfoContext(ctx, "affiliate status updated",
		slog.String("affiliate_id", id),
		slog.String("old_status", affiliate.Status),
		slog.String("new_status", status),
	)

	affiliate.Status = status
	affiliate.UpdatedAt = time.Now().UTC()

	return affiliate, nil
}
