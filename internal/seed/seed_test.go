package seed

import (
	"context"
	"testing"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSeedsEmptyStore(t *testing.T) {
	ctx := context.Background()
	repos := repo.NewInMemoryRepositories(repo.NewMemoryDB())

	res, err := Run(ctx, repos)
	require.NoError(t, err)
	assert.Equal(t, Result{Suppliers: 2, Categories: 3, Products: 3}, res)

	mouse, err := repos.Products.GetBySKU(ctx, "PROD-003")
	require.NoError(t, err)
	assert.Equal(t, "Wireless Mouse", mouse.Name)
	assert.Equal(t, "Tech Supplies Inc", mouse.SupplierName)
	assert.True(t, mouse.LowStock())

	chair, err := repos.Products.GetBySKU(ctx, "PROD-002")
	require.NoError(t, err)
	assert.Equal(t, "Office Furnishings Co", chair.SupplierName)
	assert.True(t, decimal.RequireFromString("299.99").Equal(chair.Price))
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := repo.NewInMemoryRepositories(repo.NewMemoryDB())

	_, err := Run(ctx, repos)
	require.NoError(t, err)

	res, err := Run(ctx, repos)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	all, err := repos.Products.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRunReusesExistingCategory(t *testing.T) {
	ctx := context.Background()
	repos := repo.NewInMemoryRepositories(repo.NewMemoryDB())
	_, err := repos.Categories.Create(ctx, models.Category{Name: "Electronics", Description: "created by hand"})
	require.NoError(t, err)

	res, err := Run(ctx, repos)
	require.NoError(t, err)
	assert.Equal(t, Result{Suppliers: 2, Categories: 2, Products: 3}, res)

	all, err := repos.Categories.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRunCompletesPartialSeed(t *testing.T) {
	ctx := context.Background()
	repos := repo.NewInMemoryRepositories(repo.NewMemoryDB())
	// A previous run stopped after the first supplier.
	first, err := repos.Suppliers.Create(ctx, suppliers[0])
	require.NoError(t, err)

	res, err := Run(ctx, repos)
	require.NoError(t, err)
	assert.Equal(t, Result{Suppliers: 1, Categories: 3, Products: 3}, res)

	all, err := repos.Suppliers.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	laptop, err := repos.Products.GetBySKU(ctx, "PROD-001")
	require.NoError(t, err)
	assert.Equal(t, first.ID, laptop.SupplierID)
}
