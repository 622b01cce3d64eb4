package repo

import (
	"context"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type InMemorySupplierRepository struct {
	db *MemoryDB
}

func NewInMemorySupplierRepository(db *MemoryDB) *InMemorySupplierRepository {
	return &InMemorySupplierRepository{db: db}
}

func (r *InMemorySupplierRepository) Create(_ context.Context, s models.Supplier) (models.Supplier, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := r.db.now()
	s.ID = r.db.nextSupplierID
	s.CreatedAt = now
	s.UpdatedAt = now
	r.db.nextSupplierID++
	r.db.suppliers = append(r.db.suppliers, s)
	return s, nil
}

func (r *InMemorySupplierRepository) GetAll(_ context.Context) ([]models.Supplier, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	suppliers := make([]models.Supplier, len(r.db.suppliers))
	copy(suppliers, r.db.suppliers)
	return suppliers, nil
}

func (r *InMemorySupplierRepository) GetByID(_ context.Context, id int) (models.Supplier, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if i := r.db.supplierIndex(id); i >= 0 {
		return r.db.suppliers[i], nil
	}
	return models.Supplier{}, ErrSupplierNotFound
}

func (r *InMemorySupplierRepository) Update(_ context.Context, id int, cs SupplierChangeSet) (models.Supplier, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.db.supplierIndex(id)
	if i < 0 {
		return models.Supplier{}, ErrSupplierNotFound
	}
	s := r.db.suppliers[i]
	cs.apply(&s)
	s.UpdatedAt = r.db.now()
	r.db.suppliers[i] = s
	return s, nil
}

func (r *InMemorySupplierRepository) Delete(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.db.supplierIndex(id)
	if i < 0 {
		return ErrSupplierNotFound
	}
	for _, p := range r.db.products {
		if p.SupplierID == id {
			return ErrSupplierHasProducts
		}
	}
	r.db.suppliers = append(r.db.suppliers[:i], r.db.suppliers[i+1:]...)
	return nil
}
