// Package seed loads the sample catalogue into an empty store.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/shopspring/decimal"
)

var suppliers = []models.Supplier{
	{
		Name:          "Tech Supplies Inc",
		ContactPerson: "John Smith",
		Email:         "john@techsupplies.com",
		Phone:         "+1-555-0123",
		Address:       "123 Tech Street, Silicon Valley, CA",
	},
	{
		Name:          "Office Furnishings Co",
		ContactPerson: "Sarah Johnson",
		Email:         "sarah@officefurnishings.com",
		Phone:         "+1-555-0456",
		Address:       "456 Business Ave, New York, NY",
	},
}

var categories = []models.Category{
	{Name: "Electronics", Description: "Electronic devices and components"},
	{Name: "Furniture", Description: "Office and home furniture"},
	{Name: "Office Supplies", Description: "General office supplies"},
}

// products reference suppliers by their position in the suppliers slice.
var products = []struct {
	product  models.Product
	supplier int
}{
	{models.Product{SKU: "PROD-001", Name: "Laptop Computer", Description: "High-performance business laptop", Category: "Electronics", Price: decimal.RequireFromString("999.99"), Quantity: 25, ReorderLevel: 10}, 0},
	{models.Product{SKU: "PROD-002", Name: "Office Chair", Description: "Ergonomic office chair with lumbar support", Category: "Furniture", Price: decimal.RequireFromString("299.99"), Quantity: 15, ReorderLevel: 5}, 1},
	{models.Product{SKU: "PROD-003", Name: "Wireless Mouse", Description: "Bluetooth wireless optical mouse", Category: "Electronics", Price: decimal.RequireFromString("29.99"), Quantity: 5, ReorderLevel: 15}, 0},
}

// Result reports what Run inserted.
type Result struct {
	Suppliers  int
	Categories int
	Products   int
}

// Run inserts the sample data when the store has no products yet. Suppliers
// and categories that already exist under a sample name are reused, so a run
// that failed partway is completed by the next one. It returns a zero Result
// when the store was already populated.
func Run(ctx context.Context, repos repo.Repositories) (Result, error) {
	existing, err := repos.Products.GetAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("checking products: %w", err)
	}
	if len(existing) > 0 {
		return Result{}, nil
	}

	var res Result
	ids, err := ensureSuppliers(ctx, repos.Suppliers, &res)
	if err != nil {
		return res, err
	}
	if err := ensureCategories(ctx, repos.Categories, &res); err != nil {
		return res, err
	}

	for _, p := range products {
		product := p.product
		product.SupplierID = ids[p.supplier]
		if _, err := repos.Products.Create(ctx, product); err != nil {
			return res, fmt.Errorf("seeding product %q: %w", product.SKU, err)
		}
		res.Products++
	}
	return res, nil
}

func ensureSuppliers(ctx context.Context, suppliersRepo repo.SupplierRepository, res *Result) ([]int, error) {
	current, err := suppliersRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking suppliers: %w", err)
	}
	byName := make(map[string]int, len(current))
	for _, s := range current {
		byName[s.Name] = s.ID
	}

	ids := make([]int, len(suppliers))
	for i, s := range suppliers {
		if id, ok := byName[s.Name]; ok {
			ids[i] = id
			continue
		}
		created, err := suppliersRepo.Create(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("seeding supplier %q: %w", s.Name, err)
		}
		ids[i] = created.ID
		res.Suppliers++
	}
	return ids, nil
}

func ensureCategories(ctx context.Context, categoriesRepo repo.CategoryRepository, res *Result) error {
	current, err := categoriesRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("checking categories: %w", err)
	}
	have := make(map[string]bool, len(current))
	for _, c := range current {
		have[c.Name] = true
	}

	for _, c := range categories {
		if have[c.Name] {
			continue
		}
		_, err := categoriesRepo.Create(ctx, c)
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seeding category %q: %w", c.Name, err)
		}
		res.Categories++
	}
	return nil
}
