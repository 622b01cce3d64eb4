package repo

import (
	"context"
	"sort"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type InMemoryTransactionRepository struct {
	db *MemoryDB
}

func NewInMemoryTransactionRepository(db *MemoryDB) *InMemoryTransactionRepository {
	return &InMemoryTransactionRepository{db: db}
}

// Record mutates the product and appends the transaction under the store lock,
// so concurrent outbound movements cannot overdraw stock.
func (r *InMemoryTransactionRepository) Record(_ context.Context, t models.Transaction, effect StockEffect) (models.Transaction, models.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.db.productIndex(t.ProductID)
	if i < 0 {
		return models.Transaction{}, models.Product{}, ErrProductNotFound
	}

	product := r.db.products[i]
	switch effect.Kind {
	case EffectAdd:
		if effect.Amount > models.MaxQuantity-product.Quantity {
			return models.Transaction{}, models.Product{}, ErrQuantityOutOfRange
		}
		product.Quantity += effect.Amount
	case EffectRemove:
		if product.Quantity < effect.Amount {
			return models.Transaction{}, models.Product{}, ErrInsufficientStock
		}
		product.Quantity -= effect.Amount
	case EffectSet:
		product.Quantity = effect.Amount
	}

	now := r.db.now()
	if effect.Kind != EffectNone {
		product.UpdatedAt = now
	}

	t.ID = r.db.nextTransactionID
	t.ProductName = product.Name
	t.CreatedAt = now
	r.db.nextTransactionID++

	r.db.products[i] = product
	r.db.transactions = append(r.db.transactions, t)
	return t, r.db.withSupplierName(product), nil
}

func (r *InMemoryTransactionRepository) List(_ context.Context, tf TransactionFilter) ([]models.Transaction, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	filtered := []models.Transaction{}
	for _, t := range r.db.transactions {
		if tf.ProductID != nil && t.ProductID != *tf.ProductID {
			continue
		}
		if tf.Type != "" && t.Type != tf.Type {
			continue
		}
		if tf.Since != nil && t.CreatedAt.Before(*tf.Since) {
			continue
		}
		if tf.Until != nil && t.CreatedAt.After(*tf.Until) {
			continue
		}
		filtered = append(filtered, t)
	}

	sort.SliceStable(filtered, func(a, b int) bool {
		if filtered[a].CreatedAt.Equal(filtered[b].CreatedAt) {
			return filtered[a].ID > filtered[b].ID
		}
		return filtered[a].CreatedAt.After(filtered[b].CreatedAt)
	})

	start, end := paginate(len(filtered), tf.Offset, tf.Limit)
	return filtered[start:end], len(filtered), nil
}
