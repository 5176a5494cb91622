package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mistvale/storefront/internal/domain"
	"github.com/mistvale/storefront/internal/repository"
	"github.com/mistvale/storefront/pkg/database"
	apperrors "github.com/mistvale/storefront/pkg/errors"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func setupProductRepo(t *testing.T) (*ProductRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewProductRepository(mock)
	return repo, mock
}

var productCols = []string{
	"id", "name", "slug", "description", "price_cents", "puffs",
	"legacy_flavors", "inventory", "reserved_inventory",
	"low_stock_threshold", "active", "show_on_homepage", "image_url",
	"created_at", "updated_at",
}

func sampleProduct() domain.Product {
	return domain.Product{
		ID:                "prod-1",
		Name:              "Cloudbar 6000",
		Slug:              "cloudbar-6000",
		Description:       "6000 puff disposable",
		PriceCents:        1999,
		Puffs:             6000,
		LegacyFlavors:     []string{},
		Inventory:         100,
		ReservedInventory: 10,
		LowStockThreshold: 5,
		Active:            true,
		ShowOnHomepage:    true,
		ImageURL:          "https://cdn.example.com/cloudbar.png",
		CreatedAt:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func productRow(p domain.Product) *pgxmock.Rows {
	return pgxmock.NewRows(productCols).
		AddRow(p.ID, p.Name, p.Slug, p.Description, p.PriceCents, p.Puffs,
			p.LegacyFlavors, p.Inventory, p.ReservedInventory,
			p.LowStockThreshold, p.Active, p.ShowOnHomepage, p.ImageURL,
			p.CreatedAt, p.UpdatedAt)
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestProductRepository_Create_Success(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	p := sampleProduct()
	mock.ExpectExec("INSERT INTO products").
		WithArgs(p.ID, p.Name, p.Slug, p.Description, p.PriceCents, p.Puffs,
			p.LegacyFlavors, p.Inventory, p.ReservedInventory,
			p.LowStockThreshold, p.Active, p.ShowOnHomepage, p.ImageURL,
			p.CreatedAt, p.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create_DuplicateSlug(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	p := sampleProduct()
	mock.ExpectExec("INSERT INTO products").
		WithArgs(p.ID, p.Name, p.Slug, p.Description, p.PriceCents, p.Puffs,
			p.LegacyFlavors, p.Inventory, p.ReservedInventory,
			p.LowStockThreshold, p.Active, p.ShowOnHomepage, p.ImageURL,
			p.CreatedAt, p.UpdatedAt).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "products_slug_key" (SQLSTATE 23505)`))

	err := repo.Create(context.Background(), &p)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByID / GetBySlug
// ---------------------------------------------------------------------------

func TestProductRepository_GetByID_Success(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	p := sampleProduct()
	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(p.ID).
		WillReturnRows(productRow(p))

	result, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, result.ID)
	assert.Equal(t, p.Slug, result.Slug)
	assert.Equal(t, p.Inventory, result.Inventory)
	assert.Equal(t, p.ReservedInventory, result.ReservedInventory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetBySlug_Success(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	p := sampleProduct()
	mock.ExpectQuery("SELECT .+ FROM products WHERE slug").
		WithArgs(p.Slug).
		WillReturnRows(productRow(p))

	result, err := repo.GetBySlug(context.Background(), p.Slug)
	require.NoError(t, err)
	assert.Equal(t, p.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestProductRepository_List_NoFilter(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	p := sampleProduct()
	cols := append(productCols, "total_count")
	mock.ExpectQuery("SELECT .+ FROM products").
		WithArgs(20, 0).
		WillReturnRows(
			pgxmock.NewRows(cols).
				AddRow(p.ID, p.Name, p.Slug, p.Description, p.PriceCents, p.Puffs,
					p.LegacyFlavors, p.Inventory, p.ReservedInventory,
					p.LowStockThreshold, p.Active, p.ShowOnHomepage, p.ImageURL,
					p.CreatedAt, p.UpdatedAt, 1),
		)

	products, total, err := repo.List(context.Background(), repository.ProductFilter{}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_SearchFilter(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	cols := append(productCols, "total_count")
	mock.ExpectQuery("SELECT .+ FROM products WHERE").
		WithArgs("%cloud%", 20, 0).
		WillReturnRows(pgxmock.NewRows(cols))

	products, total, err := repo.List(context.Background(), repository.ProductFilter{Search: "cloud", ActiveOnly: true}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, []domain.Product{}, products)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Update / Delete
// ---------------------------------------------------------------------------

func TestProductRepository_Update_NotFound(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	p := sampleProduct()
	mock.ExpectExec("UPDATE products").
		WithArgs(p.Name, p.Slug, p.Description, p.PriceCents, p.Puffs,
			p.LegacyFlavors, p.Inventory, p.ReservedInventory,
			p.LowStockThreshold, p.Active, p.ShowOnHomepage, p.ImageURL,
			p.UpdatedAt, p.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &p)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_Success(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM products").
		WithArgs("prod-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "prod-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_NotFound(t *testing.T) {
	repo, mock := setupProductRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM products").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
