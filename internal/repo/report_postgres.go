package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/shopspring/decimal"
)

type PostgresReportRepository struct {
	db *sql.DB
}

func NewPostgresReportRepository(db *sql.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

func (r *PostgresReportRepository) DashboardStats(ctx context.Context, since time.Time) (DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var s DashboardStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(price * quantity), 0),
		       COUNT(*) FILTER (WHERE quantity <= reorder_level),
		       COUNT(*) FILTER (WHERE quantity = 0)
		FROM products
	`).Scan(&s.TotalProducts, &s.TotalValue, &s.LowStockItems, &s.OutOfStock)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to aggregate products: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM suppliers`).Scan(&s.TotalSuppliers); err != nil {
		return DashboardStats{}, fmt.Errorf("failed to count suppliers: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE created_at >= $1`, since).
		Scan(&s.RecentTransactions)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to count transactions: %w", err)
	}
	return s, nil
}

func (r *PostgresReportRepository) LowStock(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM ` + productFrom + ` WHERE p.quantity <= p.reorder_level ORDER BY p.id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *PostgresReportRepository) StockValuation(ctx context.Context) (Valuation, error) {
	query := `SELECT ` + productColumns + ` FROM ` + productFrom + ` ORDER BY p.id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return Valuation{}, err
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return Valuation{}, err
	}

	v := Valuation{Lines: make([]ValuationLine, len(products)), Total: decimal.Zero}
	for i, p := range products {
		value := p.StockValue()
		v.Lines[i] = ValuationLine{Product: p, TotalValue: value}
		v.Total = v.Total.Add(value)
	}
	return v, nil
}
