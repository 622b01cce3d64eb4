package repo

import (
	"context"
	"math"
	"testing"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestPaginate(t *testing.T) {
	tests := []struct {
		name          string
		n             int
		offset, limit *int
		start, end    int
	}{
		{"no window", 5, nil, nil, 0, 5},
		{"limit only", 5, nil, intPtr(2), 0, 2},
		{"offset and limit", 5, intPtr(1), intPtr(3), 1, 4},
		{"limit past the end", 5, intPtr(3), intPtr(10), 3, 5},
		{"offset past the end", 5, intPtr(9), intPtr(2), 5, 5},
		{"negative offset", 5, intPtr(-4), intPtr(2), 0, 2},
		{"zero limit means all", 5, intPtr(1), intPtr(0), 1, 5},
		{"max limit", 5, intPtr(2), intPtr(math.MaxInt), 2, 5},
		{"max limit and max offset", 5, intPtr(math.MaxInt), intPtr(math.MaxInt), 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := paginate(tt.n, tt.offset, tt.limit)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestTransactionListHugeLimit(t *testing.T) {
	ctx := context.Background()
	repos := NewInMemoryRepositories(NewMemoryDB())

	supplier, err := repos.Suppliers.Create(ctx, models.Supplier{Name: "Acme"})
	require.NoError(t, err)
	p, err := repos.Products.Create(ctx, models.Product{SKU: "SKU-1", Name: "Widget", Price: decimal.NewFromInt(1), SupplierID: supplier.ID})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, _, err := repos.Transactions.Record(ctx, models.Transaction{ProductID: p.ID, Type: models.TransactionIn, Quantity: 1, UserID: 1},
			StockEffect{Kind: EffectAdd, Amount: 1})
		require.NoError(t, err)
	}

	list, total, err := repos.Transactions.List(ctx, TransactionFilter{Offset: intPtr(1), Limit: intPtr(math.MaxInt)})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, list, 2)
}
