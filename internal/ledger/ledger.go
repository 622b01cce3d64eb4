// Package ledger owns every change to a product's quantity on hand. Each
// change is recorded as an immutable transaction in the same unit of work.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/metrics"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/shopspring/decimal"
)

// DefaultUserID is attributed to transactions recorded without a user.
const DefaultUserID = 1

type FieldError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationError lists every rejected input field of a ledger entry.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Description)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, description string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Description: description})
}

// Entry is a stock movement request.
type Entry struct {
	ProductID int
	Type      string
	Quantity  int
	UnitPrice decimal.Decimal
	Notes     string
	UserID    int
}

type Ledger struct {
	transactions repo.TransactionRepository
	log          *logger.Logger
	metrics      *metrics.Metrics
}

func New(transactions repo.TransactionRepository, log *logger.Logger, m *metrics.Metrics) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	return &Ledger{transactions: transactions, log: log, metrics: m}
}

// EffectFor maps a transaction kind to its quantity mutation.
//
//	in         quantity += q
//	out        quantity -= q, rejected when it would go negative
//	adjustment quantity  = q (a stock count)
//	transfer   no change
func EffectFor(kind models.TransactionType, quantity int) repo.StockEffect {
	switch kind {
	case models.TransactionIn:
		return repo.StockEffect{Kind: repo.EffectAdd, Amount: quantity}
	case models.TransactionOut:
		return repo.StockEffect{Kind: repo.EffectRemove, Amount: quantity}
	case models.TransactionAdjustment:
		return repo.StockEffect{Kind: repo.EffectSet, Amount: quantity}
	default:
		return repo.StockEffect{Kind: repo.EffectNone}
	}
}

// Validate normalizes the entry type and checks every field.
func Validate(e *Entry) error {
	verr := &ValidationError{}

	e.Type = strings.ToLower(strings.TrimSpace(e.Type))
	kind := models.TransactionType(e.Type)

	switch {
	case e.ProductID <= 0:
		verr.add("product_id", "product_id is required")
	case e.ProductID > models.MaxQuantity:
		verr.add("product_id", "product_id is out of range")
	}
	switch {
	case e.Type == "":
		verr.add("transaction_type", "transaction_type is required")
	case !kind.Valid():
		verr.add("transaction_type", "transaction_type must be one of in, out, transfer, adjustment")
	}
	switch {
	case kind == models.TransactionAdjustment && e.Quantity < 0:
		verr.add("quantity", "quantity must be zero or greater for adjustments")
	case kind != models.TransactionAdjustment && e.Quantity <= 0:
		verr.add("quantity", "quantity must be greater than zero")
	case e.Quantity > models.MaxQuantity:
		verr.add("quantity", fmt.Sprintf("quantity must not exceed %d", models.MaxQuantity))
	}
	if err := models.CheckPrice(e.UnitPrice); err != nil {
		verr.add("unit_price", "unit_price "+err.Error())
	} else if e.Quantity <= models.MaxQuantity && total(e).GreaterThanOrEqual(models.MaxTotal) {
		verr.add("total_price", "total_price must be less than "+models.MaxTotal.String())
	}
	if e.UserID > models.MaxQuantity {
		verr.add("user_id", "user_id is out of range")
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func total(e *Entry) decimal.Decimal {
	return e.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// Record validates e and applies it atomically. It returns
// repo.ErrProductNotFound, repo.ErrInsufficientStock,
// repo.ErrQuantityOutOfRange or a *ValidationError for rejected movements;
// nothing is persisted in those cases.
func (l *Ledger) Record(ctx context.Context, e Entry) (models.Transaction, error) {
	if err := Validate(&e); err != nil {
		return models.Transaction{}, err
	}
	if e.UserID <= 0 {
		e.UserID = DefaultUserID
	}

	kind := models.TransactionType(e.Type)
	t := models.Transaction{
		ProductID:  e.ProductID,
		Type:       kind,
		Quantity:   e.Quantity,
		UnitPrice:  e.UnitPrice,
		TotalPrice: total(&e),
		Notes:      e.Notes,
		UserID:     e.UserID,
	}

	created, product, err := l.transactions.Record(ctx, t, EffectFor(kind, e.Quantity))
	if err != nil {
		if errors.Is(err, repo.ErrInsufficientStock) {
			l.metrics.IncInsufficientStock()
			return models.Transaction{}, err
		}
		if errors.Is(err, repo.ErrProductNotFound) || errors.Is(err, repo.ErrQuantityOutOfRange) {
			return models.Transaction{}, err
		}
		return models.Transaction{}, fmt.Errorf("record %s transaction: %w", kind, err)
	}

	l.metrics.IncTransaction(string(kind))
	ctx = l.log.WithFields(ctx, map[string]any{
		"transaction_id": created.ID,
		"product_id":     product.ID,
		"type":           string(kind),
		"quantity":       created.Quantity,
	})
	l.log.Debug(ctx, "transaction recorded")

	if product.LowStock() {
		l.log.Warn(l.log.WithFields(ctx, map[string]any{
			"sku":           product.SKU,
			"on_hand":       product.Quantity,
			"reorder_level": product.ReorderLevel,
		}), "low stock alert")
	}

	return created, nil
}

// List returns transactions newest first and the unpaginated total.
func (l *Ledger) List(ctx context.Context, f repo.TransactionFilter) ([]models.Transaction, int, error) {
	if f.Type != "" {
		f.Type = models.TransactionType(strings.ToLower(string(f.Type)))
	}
	return l.transactions.List(ctx, f)
}
