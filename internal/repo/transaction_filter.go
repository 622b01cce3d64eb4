package repo

import (
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type TransactionFilter struct {
	ProductID *int
	Type      models.TransactionType
	Since     *time.Time
	Until     *time.Time
	Offset    *int
	Limit     *int
}
