package repo

import (
	"context"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type SupplierRepository interface {
	Create(ctx context.Context, s models.Supplier) (models.Supplier, error)
	GetAll(ctx context.Context) ([]models.Supplier, error)
	GetByID(ctx context.Context, id int) (models.Supplier, error)
	Update(ctx context.Context, id int, cs SupplierChangeSet) (models.Supplier, error)
	// Delete fails with ErrSupplierHasProducts while any product references the supplier.
	Delete(ctx context.Context, id int) error
}

type SupplierChangeSet struct {
	Name          *string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
}

func (cs SupplierChangeSet) toMap() map[string]any {
	m := map[string]any{}
	if cs.Name != nil {
		m["name"] = *cs.Name
	}
	if cs.ContactPerson != nil {
		m["contact_person"] = *cs.ContactPerson
	}
	if cs.Email != nil {
		m["email"] = *cs.Email
	}
	if cs.Phone != nil {
		m["phone"] = *cs.Phone
	}
	if cs.Address != nil {
		m["address"] = *cs.Address
	}
	return m
}

func (cs SupplierChangeSet) apply(s *models.Supplier) {
	if cs.Name != nil {
		s.Name = *cs.Name
	}
	if cs.ContactPerson != nil {
		s.ContactPerson = *cs.ContactPerson
	}
	if cs.Email != nil {
		s.Email = *cs.Email
	}
	if cs.Phone != nil {
		s.Phone = *cs.Phone
	}
	if cs.Address != nil {
		s.Address = *cs.Address
	}
}
