package repo

import (
	"context"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product data operations.
// Quantity is not writable here; see TransactionRepository.Record.
type ProductRepository interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (models.Product, error)
	GetBySKU(ctx context.Context, sku string) (models.Product, error)
	Update(ctx context.Context, id int, cs ProductChangeSet) (models.Product, error)
	Delete(ctx context.Context, id int) error
	Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error)
}

// ProductChangeSet carries the fields of a partial update. Nil means unchanged.
type ProductChangeSet struct {
	SKU          *string
	Name         *string
	Description  *string
	Category     *string
	Price        *decimal.Decimal
	ReorderLevel *int
	SupplierID   *int
}

func (cs ProductChangeSet) toMap() map[string]any {
	m := map[string]any{}
	if cs.SKU != nil {
		m["sku"] = *cs.SKU
	}
	if cs.Name != nil {
		m["name"] = *cs.Name
	}
	if cs.Description != nil {
		m["description"] = *cs.Description
	}
	if cs.Category != nil {
		m["category"] = *cs.Category
	}
	if cs.Price != nil {
		m["price"] = *cs.Price
	}
	if cs.ReorderLevel != nil {
		m["reorder_level"] = *cs.ReorderLevel
	}
	if cs.SupplierID != nil {
		m["supplier_id"] = *cs.SupplierID
	}
	return m
}

func (cs ProductChangeSet) apply(p *models.Product) {
	if cs.SKU != nil {
		p.SKU = *cs.SKU
	}
	if cs.Name != nil {
		p.Name = *cs.Name
	}
	if cs.Description != nil {
		p.Description = *cs.Description
	}
	if cs.Category != nil {
		p.Category = *cs.Category
	}
	if cs.Price != nil {
		p.Price = *cs.Price
	}
	if cs.ReorderLevel != nil {
		p.ReorderLevel = *cs.ReorderLevel
	}
	if cs.SupplierID != nil {
		p.SupplierID = *cs.SupplierID
	}
}
