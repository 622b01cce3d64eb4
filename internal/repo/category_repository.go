package repo

import (
	"context"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type CategoryRepository interface {
	Create(ctx context.Context, c models.Category) (models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
}
