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
	"github.com/mistvale/storefront/pkg/database"
	apperrors "github.com/mistvale/storefront/pkg/errors"
)

func setupFlavorRepo(t *testing.T) (*FlavorRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewFlavorRepository(mock)
	return repo, mock
}

var flavorCols = []string{
	"id", "product_id", "name", "inventory", "reserved_inventory",
	"low_stock_threshold", "active", "created_at", "updated_at",
}

func sampleFlavor() domain.Flavor {
	return domain.Flavor{
		ID:                "flv-1",
		ProductID:         "prod-1",
		Name:              "Mango Ice",
		Inventory:         50,
		ReservedInventory: 5,
		LowStockThreshold: 5,
		Active:            true,
		CreatedAt:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func flavorRow(f domain.Flavor) []any {
	return []any{
		f.ID, f.ProductID, f.Name, f.Inventory, f.ReservedInventory,
		f.LowStockThreshold, f.Active, f.CreatedAt, f.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestFlavorRepository_Create_Success(t *testing.T) {
	repo, mock := setupFlavorRepo(t)
	defer mock.Close()

	f := sampleFlavor()
	mock.ExpectExec("INSERT INTO flavors").
		WithArgs(f.ID, f.ProductID, f.Name, f.Inventory, f.ReservedInventory,
			f.LowStockThreshold, f.Active, f.CreatedAt, f.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &f)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlavorRepository_Create_DuplicateNamePerProduct(t *testing.T) {
	repo, mock := setupFlavorRepo(t)
	defer mock.Close()

	f := sampleFlavor()
	mock.ExpectExec("INSERT INTO flavors").
		WithArgs(f.ID, f.ProductID, f.Name, f.Inventory, f.ReservedInventory,
			f.LowStockThreshold, f.Active, f.CreatedAt, f.UpdatedAt).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "flavors_product_id_name_key" (SQLSTATE 23505)`))

	err := repo.Create(context.Background(), &f)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByID
// ---------------------------------------------------------------------------

func TestFlavorRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupFlavorRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM flavors WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	// The error names the entity so 404 payloads stay descriptive.
	assert.Contains(t, err.Error(), "flavor with id missing not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// ListByProduct / ListByProducts
// ---------------------------------------------------------------------------

func TestFlavorRepository_ListByProduct_Success(t *testing.T) {
	repo, mock := setupFlavorRepo(t)
	defer mock.Close()

	f := sampleFlavor()
	mock.ExpectQuery("SELECT .+ FROM flavors WHERE product_id").
		WithArgs(f.ProductID).
		WillReturnRows(pgxmock.NewRows(flavorCols).AddRow(flavorRow(f)...))

	flavors, err := repo.ListByProduct(context.Background(), f.ProductID)
	require.NoError(t, err)
	assert.Len(t, flavors, 1)
	assert.Equal(t, "Mango Ice", flavors[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlavorRepository_ListByProduct_Empty(t *testing.T) {
	repo, mock := setupFlavorRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM flavors WHERE product_id").
		WithArgs("prod-legacy").
		WillReturnRows(pgxmock.NewRows(flavorCols))

	flavors, err := repo.ListByProduct(context.Background(), "prod-legacy")
	require.NoError(t, err)
	assert.Equal(t, []domain.Flavor{}, flavors)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlavorRepository_ListByProducts_GroupsByProduct(t *testing.T) {
	repo, mock := setupFlavorRepo(t)
	defer mock.Close()

	f1 := sampleFlavor()
	f2 := sampleFlavor()
	f2.ID = "flv-2"
	f2.Name = "Blue Razz"
	f3 := sampleFlavor()
	f3.ID = "flv-3"
	f3.ProductID = "prod-2"
	f3.Name = "Sandia Helada"

	ids := []string{"prod-1", "prod-2"}
	mock.ExpectQuery("SELECT .+ FROM flavors WHERE product_id = ANY").
		WithArgs(ids).
		WillReturnRows(
			pgxmock.NewRows(flavorCols).
				AddRow(flavorRow(f2)...).
				AddRow(flavorRow(f1)...).
				AddRow(flavorRow(f3)...),
		)

	byProduct, err := repo.ListByProducts(context.Background(), ids)
	require.NoError(t, err)
	assert.Len(t, byProduct["prod-1"], 2)
	assert.Len(t, byProduct["prod-2"], 1)
	assert.Equal(t, "Sandia Helada", byProduct["prod-2"][0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlavorRepository_ListByProducts_EmptyInput(t *testing.T) {
	repo, mock := setupFlavorRepo(t)
	defer mock.Close()

	byProduct, err := repo.ListByProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, byProduct)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Update / Delete
// ---------------------------------------------------------------------------

func TestFlavorRepository_Update_Success(t *testing.T) {
	repo, mock := setupFlavorRepo(t)
	defer mock.Close()

	f := sampleFlavor()
	mock.ExpectExec("UPDATE flavors").
		WithArgs(f.Name, f.Inventory, f.ReservedInventory,
			f.LowStockThreshold, f.Active, f.UpdatedAt, f.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), &f)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlavorRepository_Delete_NotFound(t *testing.T) {
	repo, mock := setupFlavorRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM flavors").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// ListLowStock
// ---------------------------------------------------------------------------

func TestFlavorRepository_ListLowStock_Success(t *testing.T) {
	repo, mock := setupFlavorRepo(t)
	defer mock.Close()

	f := sampleFlavor()
	f.Inventory = 6
	f.ReservedInventory = 3 // available 3, threshold 5
	cols := append(flavorCols, "total_count")
	mock.ExpectQuery("SELECT .+ FROM flavors WHERE active").
		WithArgs(10, 0).
		WillReturnRows(
			pgxmock.NewRows(cols).
				AddRow(f.ID, f.ProductID, f.Name, f.Inventory, f.ReservedInventory,
					f.LowStockThreshold, f.Active, f.CreatedAt, f.UpdatedAt, 1),
		)

	flavors, total, err := repo.ListLowStock(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Len(t, flavors, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, 3, flavors[0].Available())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlavorRepository_ListLowStock_Empty(t *testing.T) {
	repo, mock := setupFlavorRepo(t)
	defer mock.Close()

	cols := append(flavorCols, "total_count")
	mock.ExpectQuery("SELECT .+ FROM flavors WHERE active").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(cols))

	flavors, total, err := repo.ListLowStock(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.Flavor{}, flavors)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
