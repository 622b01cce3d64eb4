package handlers_test_suite

import (
	"net/http"
	"testing"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/shopspring/decimal"
)

func dashboard(t *testing.T) repo.DashboardStats {
	t.Helper()
	w := get(router, "/api/dashboard/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	return decode[repo.DashboardStats](t, w)
}

func lowStockSKUs(t *testing.T) map[string]bool {
	t.Helper()
	w := get(router, "/api/reports/low-stock")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	skus := map[string]bool{}
	for _, p := range decode[[]models.Product](t, w) {
		skus[p.SKU] = true
	}
	return skus
}

func TestLowStockRestockScenario(t *testing.T) {
	t.Cleanup(clearAll)
	p := mustCreateProduct(t, router, "LOW-1", 5, 10, "29.99")
	mustCreateProduct(t, router, "OK-1", 50, 10, "1.00")

	if skus := lowStockSKUs(t); !skus["LOW-1"] || skus["OK-1"] {
		t.Fatalf("expected only LOW-1 in low stock, got %v", skus)
	}
	before := dashboard(t)
	if before.LowStockItems != 1 {
		t.Errorf("expected 1 low stock item, got %d", before.LowStockItems)
	}

	mustRecord(t, router, p.ID, "in", 10, "29.99")

	if got := fetchProduct(t, router, p.ID).Quantity; got != 15 {
		t.Fatalf("expected quantity 15, got %d", got)
	}
	if skus := lowStockSKUs(t); skus["LOW-1"] {
		t.Errorf("expected LOW-1 to leave the low stock report")
	}

	after := dashboard(t)
	growth := after.TotalValue.Sub(before.TotalValue)
	if want := mustDecimal(t, "299.90"); !growth.Equal(want) {
		t.Errorf("expected total_value to grow by %s, got %s", want, growth)
	}
	if after.LowStockItems != 0 {
		t.Errorf("expected no low stock items, got %d", after.LowStockItems)
	}
}

func TestOutOfStockScenario(t *testing.T) {
	t.Cleanup(clearAll)
	p := mustCreateProduct(t, router, "ZERO-1", 0, 0, "5.00")

	if stats := dashboard(t); stats.OutOfStock != 1 {
		t.Fatalf("expected 1 out of stock product, got %d", stats.OutOfStock)
	}

	mustRecord(t, router, p.ID, "in", 1, "5.00")

	if stats := dashboard(t); stats.OutOfStock != 0 {
		t.Errorf("expected no out of stock product, got %d", stats.OutOfStock)
	}
}

func TestDashboardStatsHandler(t *testing.T) {
	t.Cleanup(clearAll)

	empty := dashboard(t)
	if empty.TotalProducts != 0 || !empty.TotalValue.IsZero() || empty.RecentTransactions != 0 {
		t.Fatalf("expected empty stats, got %+v", empty)
	}

	a := mustCreateProduct(t, router, "DASH-1", 2, 1, "10.00")
	mustCreateProduct(t, router, "DASH-2", 3, 5, "1.50")
	mustRecord(t, router, a.ID, "in", 1, "10.00")
	mustRecord(t, router, a.ID, "transfer", 1, "10.00")

	stats := dashboard(t)
	if stats.TotalProducts != 2 {
		t.Errorf("expected 2 products, got %d", stats.TotalProducts)
	}
	if stats.TotalSuppliers != 2 {
		t.Errorf("expected 2 suppliers, got %d", stats.TotalSuppliers)
	}
	if want := mustDecimal(t, "34.50"); !stats.TotalValue.Equal(want) {
		t.Errorf("expected total_value %s, got %s", want, stats.TotalValue)
	}
	if stats.LowStockItems != 1 {
		t.Errorf("expected 1 low stock item, got %d", stats.LowStockItems)
	}
	if stats.RecentTransactions != 2 {
		t.Errorf("expected 2 recent transactions, got %d", stats.RecentTransactions)
	}
}

func TestStockValuationHandler(t *testing.T) {
	t.Cleanup(clearAll)
	mustCreateProduct(t, router, "VAL-1", 25, 10, "999.99")
	mustCreateProduct(t, router, "VAL-2", 15, 5, "299.99")
	mustCreateProduct(t, router, "VAL-3", 5, 15, "29.99")

	w := get(router, "/api/reports/stock-valuation")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	header := w.Header().Get("X-Total-Value")
	lines := decode[[]repo.ValuationLine](t, w)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	sum := decimal.Zero
	for _, line := range lines {
		want := line.Product.Price.Mul(decimal.NewFromInt(int64(line.Product.Quantity)))
		if !line.TotalValue.Equal(want) {
			t.Errorf("%s: expected value %s, got %s", line.Product.SKU, want, line.TotalValue)
		}
		sum = sum.Add(want)
	}

	if want := mustDecimal(t, "29649.55"); !sum.Equal(want) {
		t.Errorf("expected recomputed total %s, got %s", want, sum)
	}
	if header != "29649.55" {
		t.Errorf("expected X-Total-Value 29649.55, got %q", header)
	}
}
