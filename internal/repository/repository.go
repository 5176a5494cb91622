package repository

import (
	"context"
	"time"

	"github.com/mistvale/storefront/internal/domain"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	// Search matches against name and description (case-insensitive).
	Search string
	// ActiveOnly restricts to active products (the public catalog view).
	ActiveOnly bool
	// HomepageOnly restricts to products flagged for the homepage.
	HomepageOnly bool
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product.
	Create(ctx context.Context, p *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetBySlug retrieves a product by its URL slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)

	// List returns a page of products matching the filter plus the total count.
	List(ctx context.Context, filter ProductFilter, page, perPage int) ([]domain.Product, int, error)

	// Update persists all mutable product fields.
	Update(ctx context.Context, p *domain.Product) error

	// Delete removes a product. Flavor rows cascade at the database level.
	Delete(ctx context.Context, id string) error
}

// FlavorRepository defines the interface for flavor persistence operations.
type FlavorRepository interface {
	// Create inserts a new flavor for a product.
	Create(ctx context.Context, f *domain.Flavor) error

	// GetByID retrieves a flavor by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Flavor, error)

	// ListByProduct returns all flavors for a product ordered by name.
	ListByProduct(ctx context.Context, productID string) ([]domain.Flavor, error)

	// ListByProducts returns flavors for multiple products keyed by product ID,
	// fetched in a single query for catalog aggregation.
	ListByProducts(ctx context.Context, productIDs []string) (map[string][]domain.Flavor, error)

	// Update persists all mutable flavor fields.
	Update(ctx context.Context, f *domain.Flavor) error

	// Delete removes a flavor unconditionally.
	Delete(ctx context.Context, id string) error

	// ListLowStock returns flavors whose availability is at or below their
	// threshold, most depleted first.
	ListLowStock(ctx context.Context, page, perPage int) ([]domain.Flavor, int, error)
}

// SaleRepository defines the interface for sale persistence operations.
type SaleRepository interface {
	// Create inserts a new sale record.
	Create(ctx context.Context, s *domain.Sale) error

	// GetByID retrieves a sale by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Sale, error)

	// List returns a page of sales, optionally filtered by status, newest first.
	List(ctx context.Context, status string, page, perPage int) ([]domain.Sale, int, error)

	// UpdateStatus moves a sale to the given status.
	UpdateStatus(ctx context.Context, id, status string) error

	// CountByProduct returns the number of sales referencing a product.
	CountByProduct(ctx context.Context, productID string) (int, error)
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, u *domain.User) error

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByID retrieves a user by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// AffiliateRepository defines the interface for affiliate persistence operations.
type AffiliateRepository interface {
	// Create inserts a new affiliate application.
	Create(ctx context.Context, a *domain.Affiliate) error

	// GetByID retrieves an affiliate by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Affiliate, error)

	// GetByCode retrieves an affiliate by referral code.
	GetByCode(ctx context.Context, code string) (*domain.Affiliate, error)

	// List returns a page of affiliates, optionally filtered by status.
	List(ctx context.Context, status string, page, perPage int) ([]domain.Affiliate, int, error)

	// UpdateStatus moves an affiliate to the given status.
	UpdateStatus(ctx context.Context, id, status string) error
}

// MessageRepository defines the interface for contact message persistence.
type MessageRepository interface {
	// Create inserts a new contact message.
	Create(ctx context.Context, m *domain.ContactMessage) error

	// List returns a page of messages, newest first, plus the total count.
	List(ctx context.Context, unreadOnly bool, page, perPage int) ([]domain.ContactMessage, int, error)

	// MarkRead flags a message as read.
	MarkRead(ctx context.Context, id string) error

	// Delete removes a message.
	Delete(ctx context.Context, id string) error
}

// HomepageRepository defines the interface for homepage content persistence.
type HomepageRepository interface {
	// Get retrieves a homepage section by key.
	Get(ctx context.Context, key string) (*domain.HomepageSection, error)

	// Upsert creates or replaces a homepage section.
	Upsert(ctx context.Context, s *domain.HomepageSection) error

	// ListKeys returns all section keys.
	ListKeys(ctx context.Context) ([]string, error)
}

// LoginAttemptStore tracks failed login attempts per account with a rolling
// window, backed by Redis so the limit holds across instances.
type LoginAttemptStore interface {
	// RecordFailure increments the failure count for the email and returns the
	// new count. The window starts on the first failure.
	RecordFailure(ctx context.Context, email string, window time.Duration) (int, error)

	// Failures returns the current failure count for the email.
	Failures(ctx context.Context, email string) (int, error)

	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, email string) error
}

// HomepageCache caches rendered homepage sections.
type HomepageCache interface {
	// Get returns the cached section, or nil on a miss.
	Get(ctx context.Context, key string) (*domain.HomepageSection, error)

	// Set stores a section with the configured TTL.
	Set(ctx context.Context, s *domain.HomepageSection) error

	// Invalidate drops the cached section for a key.
	Invalidate(ctx context.Context, key string) error
}
