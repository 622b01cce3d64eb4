package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

const ledgerProductColumns = `id, sku, name, description, category, price, quantity, reorder_level, supplier_id, created_at, updated_at`

type PostgresTransactionRepository struct {
	db *sql.DB
}

func NewPostgresTransactionRepository(db *sql.DB) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

// Record runs the quantity change and the insert in one database transaction.
// The outbound path is a conditional update, so two concurrent withdrawals
// cannot both pass the stock check.
func (r *PostgresTransactionRepository) Record(ctx context.Context, t models.Transaction, effect StockEffect) (models.Transaction, models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Transaction{}, models.Product{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	product, err := applyEffect(ctx, tx, t.ProductID, effect, now)
	if err != nil {
		return models.Transaction{}, models.Product{}, err
	}

	query := `INSERT INTO transactions (product_id, transaction_type, quantity, unit_price, total_price, notes, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, unit_price, total_price, created_at`
	err = tx.QueryRowContext(ctx, query, t.ProductID, string(t.Type), t.Quantity, t.UnitPrice, t.TotalPrice, t.Notes, t.UserID, now).
		Scan(&t.ID, &t.UnitPrice, &t.TotalPrice, &t.CreatedAt)
	if err != nil {
		return models.Transaction{}, models.Product{}, fmt.Errorf("failed to insert transaction: %w", err)
	}

	if err := tx.QueryRowContext(ctx, `SELECT name FROM suppliers WHERE id = $1`, product.SupplierID).Scan(&product.SupplierName); err != nil {
		return models.Transaction{}, models.Product{}, fmt.Errorf("failed to load supplier: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Transaction{}, models.Product{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	t.ProductName = product.Name
	return t, product, nil
}

func applyEffect(ctx context.Context, tx *sql.Tx, productID int, effect StockEffect, now time.Time) (models.Product, error) {
	var row *sql.Row
	switch effect.Kind {
	case EffectAdd:
		row = tx.QueryRowContext(ctx, `UPDATE products SET quantity = quantity + $1, updated_at = $2
			WHERE id = $3 RETURNING `+ledgerProductColumns, effect.Amount, now, productID)
	case EffectRemove:
		row = tx.QueryRowContext(ctx, `UPDATE products SET quantity = quantity - $1, updated_at = $2
			WHERE id = $3 AND quantity >= $1 RETURNING `+ledgerProductColumns, effect.Amount, now, productID)
	case EffectSet:
		row = tx.QueryRowContext(ctx, `UPDATE products SET quantity = $1, updated_at = $2
			WHERE id = $3 RETURNING `+ledgerProductColumns, effect.Amount, now, productID)
	default:
		row = tx.QueryRowContext(ctx, `SELECT `+ledgerProductColumns+` FROM products WHERE id = $1 FOR SHARE`, productID)
	}

	var p models.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Category, &p.Price, &p.Quantity,
		&p.ReorderLevel, &p.SupplierID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		if effect.Kind != EffectRemove {
			return models.Product{}, ErrProductNotFound
		}
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
			return models.Product{}, err
		}
		if !exists {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, ErrInsufficientStock
	}
	if pgErrorCode(err) == pgNumericOutOfRange {
		return models.Product{}, ErrQuantityOutOfRange
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to update product quantity: %w", err)
	}
	return p, nil
}

// List returns transactions newest first.
func (r *PostgresTransactionRepository) List(ctx context.Context, tf TransactionFilter) ([]models.Transaction, int, error) {
	conditions := sq.And{}
	if tf.ProductID != nil {
		conditions = append(conditions, sq.Eq{"t.product_id": *tf.ProductID})
	}
	if tf.Type != "" {
		conditions = append(conditions, sq.Eq{"t.transaction_type": string(tf.Type)})
	}
	if tf.Since != nil {
		conditions = append(conditions, sq.GtOrEq{"t.created_at": *tf.Since})
	}
	if tf.Until != nil {
		conditions = append(conditions, sq.LtOrEq{"t.created_at": *tf.Until})
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int
	err := psql.Select("COUNT(*)").
		From("transactions t").
		Where(conditions).
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	if tf.Offset != nil && *tf.Offset >= total {
		return []models.Transaction{}, total, nil
	}

	query := psql.Select(
		"t.id", "t.product_id", "p.name", "t.transaction_type", "t.quantity",
		"t.unit_price", "t.total_price", "t.notes", "t.user_id", "t.created_at",
	).
		From("transactions t").
		Join("products p ON p.id = t.product_id").
		Where(conditions).
		OrderBy("t.created_at DESC", "t.id DESC")

	if tf.Limit != nil && *tf.Limit > 0 {
		query = query.Limit(uint64(*tf.Limit))
	}
	if tf.Offset != nil && *tf.Offset > 0 {
		query = query.Offset(uint64(*tf.Offset))
	}

	rows, err := query.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var kind string
		if err := rows.Scan(&t.ID, &t.ProductID, &t.ProductName, &kind, &t.Quantity,
			&t.UnitPrice, &t.TotalPrice, &t.Notes, &t.UserID, &t.CreatedAt); err != nil {
			return nil, 0, err
		}
		t.Type = models.TransactionType(kind)
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}
