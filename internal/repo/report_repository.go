package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	TotalProducts      int             `json:"total_products"`
	TotalValue         decimal.Decimal `json:"total_value"`
	LowStockItems      int             `json:"low_stock_items"`
	OutOfStock         int             `json:"out_of_stock"`
	TotalSuppliers     int             `json:"total_suppliers"`
	RecentTransactions int             `json:"recent_transactions"`
}

type ValuationLine struct {
	Product    models.Product  `json:"product"`
	TotalValue decimal.Decimal `json:"total_value"`
}

type Valuation struct {
	Lines []ValuationLine
	Total decimal.Decimal
}

// ReportRepository holds the read-side aggregations over products and transactions.
type ReportRepository interface {
	// DashboardStats counts transactions created at or after since as recent.
	DashboardStats(ctx context.Context, since time.Time) (DashboardStats, error)
	LowStock(ctx context.Context) ([]models.Product, error)
	StockValuation(ctx context.Context) (Valuation, error)
}
