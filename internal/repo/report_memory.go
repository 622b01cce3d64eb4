package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/shopspring/decimal"
)

type InMemoryReportRepository struct {
	db *MemoryDB
}

func NewInMemoryReportRepository(db *MemoryDB) *InMemoryReportRepository {
	return &InMemoryReportRepository{db: db}
}

// DashboardStats implements ReportRepository.
func (r *InMemoryReportRepository) DashboardStats(_ context.Context, since time.Time) (DashboardStats, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	stats := DashboardStats{
		TotalProducts:  len(r.db.products),
		TotalValue:     decimal.Zero,
		TotalSuppliers: len(r.db.suppliers),
	}
	for _, p := range r.db.products {
		stats.TotalValue = stats.TotalValue.Add(p.StockValue())
		if p.LowStock() {
			stats.LowStockItems++
		}
		if p.Quantity == 0 {
			stats.OutOfStock++
		}
	}
	for _, t := range r.db.transactions {
		if !t.CreatedAt.Before(since) {
			stats.RecentTransactions++
		}
	}
	return stats, nil
}

func (r *InMemoryReportRepository) LowStock(_ context.Context) ([]models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	products := []models.Product{}
	for _, p := range r.db.products {
		if p.LowStock() {
			products = append(products, r.db.withSupplierName(p))
		}
	}
	return products, nil
}

func (r *InMemoryReportRepository) StockValuation(_ context.Context) (Valuation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	v := Valuation{Lines: []ValuationLine{}, Total: decimal.Zero}
	for _, p := range r.db.products {
		value := p.StockValue()
		v.Lines = append(v.Lines, ValuationLine{Product: r.db.withSupplierName(p), TotalValue: value})
		v.Total = v.Total.Add(value)
	}
	return v, nil
}
