package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	db *MemoryDB
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository(db *MemoryDB) *InMemoryProductRepository {
	return &InMemoryProductRepository{db: db}
}

func matchesFilter(p models.Product, pf ProductFilter) bool {
	if pf.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(pf.Name)) {
		return false
	}
	if pf.Category != "" && !strings.EqualFold(p.Category, pf.Category) {
		return false
	}
	if pf.SupplierID != nil && p.SupplierID != *pf.SupplierID {
		return false
	}
	if pf.MinPrice != nil && p.Price.LessThan(*pf.MinPrice) {
		return false
	}
	if pf.MaxPrice != nil && p.Price.GreaterThan(*pf.MaxPrice) {
		return false
	}
	if pf.MinQty != nil && p.Quantity < *pf.MinQty {
		return false
	}
	if pf.MaxQty != nil && p.Quantity > *pf.MaxQty {
		return false
	}
	return true
}

func (r *InMemoryProductRepository) Filter(_ context.Context, pf ProductFilter) ([]models.Product, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	filtered := []models.Product{}
	for _, p := range r.db.products {
		if matchesFilter(p, pf) {
			filtered = append(filtered, r.db.withSupplierName(p))
		}
	}

	limit := defaultLimit
	if pf.Limit != nil {
		limit = min(*pf.Limit, defaultLimit)
	}
	start, end := paginate(len(filtered), pf.Offset, &limit)
	return filtered[start:end], len(filtered), nil
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(_ context.Context, product models.Product) (models.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.supplierIndex(product.SupplierID) < 0 {
		return models.Product{}, ErrSupplierNotFound
	}
	for _, p := range r.db.products {
		if p.SKU == product.SKU {
			return models.Product{}, fmt.Errorf("sku %q: %w", product.SKU, ErrDuplicatedValueUnique)
		}
	}

	now := r.db.now()
	product.ID = r.db.nextProductID
	product.CreatedAt = now
	product.UpdatedAt = now
	r.db.nextProductID++
	r.db.products = append(r.db.products, product)
	return r.db.withSupplierName(product), nil
}

// GetAll retrieves all products from the repository.
func (r *InMemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	products := make([]models.Product, len(r.db.products))
	for i, p := range r.db.products {
		products[i] = r.db.withSupplierName(p)
	}
	return products, nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id int) (models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if i := r.db.productIndex(id); i >= 0 {
		return r.db.withSupplierName(r.db.products[i]), nil
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) GetBySKU(_ context.Context, sku string) (models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, p := range r.db.products {
		if p.SKU == sku {
			return r.db.withSupplierName(p), nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// Update applies the change set to an existing product.
func (r *InMemoryProductRepository) Update(_ context.Context, id int, cs ProductChangeSet) (models.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.db.productIndex(id)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}
	if cs.SKU != nil {
		for _, p := range r.db.products {
			if p.SKU == *cs.SKU && p.ID != id {
				return models.Product{}, fmt.Errorf("sku %q: %w", *cs.SKU, ErrDuplicatedValueUnique)
			}
		}
	}
	if cs.SupplierID != nil && r.db.supplierIndex(*cs.SupplierID) < 0 {
		return models.Product{}, ErrSupplierNotFound
	}

	product := r.db.products[i]
	cs.apply(&product)
	product.UpdatedAt = r.db.now()
	r.db.products[i] = product
	return r.db.withSupplierName(product), nil
}

// Delete removes a product and its transactions.
func (r *InMemoryProductRepository) Delete(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.db.productIndex(id)
	if i < 0 {
		return ErrProductNotFound
	}
	r.db.products = append(r.db.products[:i], r.db.products[i+1:]...)

	kept := r.db.transactions[:0]
	for _, t := range r.db.transactions {
		if t.ProductID != id {
			kept = append(kept, t)
		}
	}
	r.db.transactions = kept
	return nil
}
