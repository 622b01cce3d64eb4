package repo

import (
	"context"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type EffectKind int

const (
	// EffectNone records the transaction without touching the quantity on hand.
	EffectNone EffectKind = iota
	EffectAdd
	// EffectRemove fails with ErrInsufficientStock when Amount exceeds the quantity on hand.
	EffectRemove
	// EffectSet replaces the quantity on hand with Amount.
	EffectSet
)

// StockEffect is the quantity mutation applied together with a transaction insert.
type StockEffect struct {
	Kind   EffectKind
	Amount int
}

// TransactionRepository is the ledger store.
type TransactionRepository interface {
	// Record applies effect to the product and inserts t in one unit of work.
	// On any error neither write is kept. It returns the stored transaction and
	// the product as left by the effect.
	Record(ctx context.Context, t models.Transaction, effect StockEffect) (models.Transaction, models.Product, error)
	// List returns transactions newest first plus the unpaginated total.
	List(ctx context.Context, tf TransactionFilter) ([]models.Transaction, int, error)
}
