package service

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mistvale/storefront/internal/domain"
	"github.com/mistvale/storefront/internal/event"
	"github.com/mistvale/storefront/internal/repository"
	pkgkafka "github.com/mistvale/storefront/pkg/kafka"
)

// --- Mock ProductRepository ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter, page, perPage int) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter, page, perPage)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock FlavorRepository ---

type mockFlavorRepository struct {
	mock.Mock
}

func (m *mockFlavorRepository) Create(ctx context.Context, f *domain.Flavor) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *mockFlavorRepository) GetByID(ctx context.Context, id string) (*domain.Flavor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flavor), args.Error(1)
}

func (m *mockFlavorRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Flavor, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.Flavor), args.Error(1)
}

func (m *mockFlavorRepository) ListByProducts(ctx context.Context, productIDs []string) (map[string][]domain.Flavor, error) {
	args := m.Called(ctx, productIDs)
	return args.Get(0).(map[string][]domain.Flavor), args.Error(1)
}

func (m *mockFlavorRepository) Update(ctx context.Context, f *domain.Flavor) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *mockFlavorRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockFlavorRepository) ListLowStock(ctx context.Context, page, perPage int) ([]domain.Flavor, int, error) {
	args := m.Called(ctx, page, perPage)
	return args.Get(0).([]domain.Flavor), args.Int(1), args.Error(2)
}

// --- Mock SaleRepository ---

type mockSaleRepository struct {
	mock.Mock
}

func (m *mockSaleRepository) Create(ctx context.Context, s *domain.Sale) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockSaleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}

func (m *mockSaleRepository) List(ctx context.Context, status string, page, perPage int) ([]domain.Sale, int, error) {
	args := m.Called(ctx, status, page, perPage)
	return args.Get(0).([]domain.Sale), args.Int(1), args.Error(2)
}

func (m *mockSaleRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockSaleRepository) CountByProduct(ctx context.Context, productID string) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

// --- Mock UserRepository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock AffiliateRepository ---

type mockAffiliateRepository struct {
	mock.Mock
}

func (m *mockAffiliateRepository) Create(ctx context.Context, a *domain.Affiliate) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockAffiliateRepository) GetByID(ctx context.Context, id string) (*domain.Affiliate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Affiliate), args.Error(1)
}

func (m *mockAffiliateRepository) GetByCode(ctx context.Context, code string) (*domain.Affiliate, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Affiliate), args.Error(1)
}

func (m *mockAffiliateRepository) List(ctx context.Context, status string, page, perPage int) ([]domain.Affiliate, int, error) {
	args := m.Called(ctx, status, page, perPage)
	return args.Get(0).([]domain.Affiliate), args.Int(1), args.Error(2)
}

func (m *mockAffiliateRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// --- Mock MessageRepository ---

type mockMessageRepository struct {
	mock.Mock
}

func (m *mockMessageRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockMessageRepository) List(ctx context.Context, unreadOnly bool, page, perPage int) ([]domain.ContactMessage, int, error) {
	args := m.Called(ctx, unreadOnly, page, perPage)
	return args.Get(0).([]domain.ContactMessage), args.Int(1), args.Error(2)
}

func (m *mockMessageRepository) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockMessageRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock HomepageRepository ---

type mockHomepageRepository struct {
	mock.Mock
}

func (m *mockHomepageRepository) Get(ctx context.Context, key string) (*domain.HomepageSection, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HomepageSection), args.Error(1)
}

func (m *mockHomepageRepository) Upsert(ctx context.Context, s *domain.HomepageSection) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockHomepageRepository) ListKeys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock HomepageCache ---

type mockHomepageCache struct {
	mock.Mock
}

func (m *mockHomepageCache) Get(ctx context.Context, key string) (*domain.HomepageSection, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HomepageSection), args.Error(1)
}

func (m *mockHomepageCache) Set(ctx context.Context, s *domain.HomepageSection) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockHomepageCache) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// --- Mock LoginAttemptStore ---

type mockLoginAttemptStore struct {
	mock.Mock
}

func (m *mockLoginAttemptStore) RecordFailure(ctx context.Context, email string, window time.Duration) (int, error) {
	args := m.Called(ctx, email, window)
	return args.Int(0), args.Error(1)
}

func (m *mockLoginAttemptStore) Failures(ctx context.Context, email string) (int, error) {
	args := m.Called(ctx, email)
	return args.Int(0), args.Error(1)
}

func (m *mockLoginAttemptStore) Reset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// --- Shared helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestProducer returns a producer pointing at an unreachable broker.
// Publish failures are non-fatal in every service, so tests exercise the
// error-logging path without a running Kafka.
func newTestProducer() *event.Producer {
	logger := newTestLogger()
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:0"}), logger)
	return event.NewProducer(kafkaProducer, logger)
}
