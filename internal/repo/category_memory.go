package repo

import (
	"context"
	"fmt"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type InMemoryCategoryRepository struct {
	db *MemoryDB
}

func NewInMemoryCategoryRepository(db *MemoryDB) *InMemoryCategoryRepository {
	return &InMemoryCategoryRepository{db: db}
}

func (r *InMemoryCategoryRepository) Create(_ context.Context, c models.Category) (models.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.categories {
		if existing.Name == c.Name {
			return models.Category{}, fmt.Errorf("category %q: %w", c.Name, ErrDuplicatedValueUnique)
		}
	}
	c.ID = r.db.nextCategoryID
	r.db.nextCategoryID++
	r.db.categories = append(r.db.categories, c)
	return c, nil
}

func (r *InMemoryCategoryRepository) GetAll(_ context.Context) ([]models.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	categories := make([]models.Category, len(r.db.categories))
	copy(categories, r.db.categories)
	return categories, nil
}
