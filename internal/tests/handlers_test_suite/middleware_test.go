package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	api "github.com/rogerio-castellano/inventory-ledger/internal/http"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/ban"
	handler "github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-ledger/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/rs/zerolog"
)

func TestRequestIDHeader(t *testing.T) {
	w := get(router, "/healthz")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	if got := doRequest(router, req).Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("expected the caller's request id to be echoed, got %q", got)
	}
}

func TestAccessLogCarriesRequestFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})
	server := handler.NewServer(handler.Options{Repos: repo.NewInMemoryRepositories(repo.NewMemoryDB()), Logger: log})
	r := api.NewRouter(api.RouterConfig{Server: server, Logger: log})

	req := httptest.NewRequest(http.MethodGet, "/api/products/77", nil)
	req.Header.Set("X-Request-ID", "trace-me")
	doRequest(r, req)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["request_id"] != "trace-me" || entry["path"] != "/api/products/77" || entry["status"] != float64(http.StatusNotFound) {
		t.Errorf("unexpected access log entry: %v", entry)
	}
}

func TestHealthHandler(t *testing.T) {
	w := get(router, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if resp := decode[handler.HealthResponse](t, w); resp.Status != "ok" {
		t.Errorf("expected status ok, got %q", resp.Status)
	}

	failing := handler.NewServer(handler.Options{
		Repos:  repo.NewInMemoryRepositories(repo.NewMemoryDB()),
		Health: func(context.Context) error { return errors.New("connection refused") },
	})
	w = get(api.NewRouter(api.RouterConfig{Server: failing}), "/healthz")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Error("expected the cause not to be echoed")
	}
}

func TestPanicReturnsJSONError(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: &buf})
	server := handler.NewServer(handler.Options{
		Repos:  repo.NewInMemoryRepositories(repo.NewMemoryDB()),
		Logger: log,
		Health: func(context.Context) error { panic("pool exhausted") },
	})
	r := api.NewRouter(api.RouterConfig{Server: server, Logger: log})

	w := get(r, "/healthz")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected a JSON body, got content type %q", ct)
	}
	if resp := decode[handler.ErrorResponse](t, w); resp.Error != "internal server error" {
		t.Errorf("expected 'internal server error', got %q", resp.Error)
	}
	if !strings.Contains(buf.String(), "panic serving request") || !strings.Contains(buf.String(), "pool exhausted") {
		t.Errorf("expected the panic to be logged, got %q", buf.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Cleanup(clearAll)
	p := mustCreateProduct(t, router, "MET-1", 1, 0, "1.00")
	mustRecord(t, router, p.ID, "in", 1, "1.00")
	recordTransaction(router, p.ID, "out", 50, "1.00")
	get(router, "/healthz")

	w := get(router, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`http_requests_total{method="GET",route="/healthz",status="200"}`,
		`ledger_transactions_total{type="in"}`,
		`ledger_insufficient_stock_total`,
		`http_request_duration_seconds_bucket`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected /metrics to expose %s", want)
		}
	}
}

func TestSwaggerDocument(t *testing.T) {
	w := get(router, "/swagger/doc.json")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/api/transactions") {
		t.Error("expected the API document to describe /api/transactions")
	}
}

func TestRateLimitStrikesAndBan(t *testing.T) {
	bans := ban.NewMemoryStore()
	server := handler.NewServer(handler.Options{Repos: repo.NewInMemoryRepositories(repo.NewMemoryDB())})
	r := api.NewRouter(api.RouterConfig{
		Server: server,
		RateLimit: api.RateLimitPolicy{
			Limiter:     rl.New(0.001, 2),
			Bans:        bans,
			Strikes:     2,
			StrikeTTL:   time.Minute,
			BanDuration: time.Hour,
		},
	})

	expected := []int{
		http.StatusOK,
		http.StatusOK,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusForbidden,
	}
	for i, status := range expected {
		w := get(r, "/api/products")
		if w.Code != status {
			t.Fatalf("request %d: expected status %d, got %d", i+1, status, w.Code)
		}
		if status == http.StatusTooManyRequests && w.Header().Get("Retry-After") == "" {
			t.Errorf("request %d: expected Retry-After header", i+1)
		}
	}

	entries, _ := bans.Log(context.Background())
	if len(entries) != 1 || entries[0].Route != "/api/products" || entries[0].Strikes != 2 {
		t.Errorf("unexpected ban log: %+v", entries)
	}

	// Health checks stay outside the limited group.
	if w := get(r, "/healthz"); w.Code != http.StatusOK {
		t.Errorf("expected /healthz to bypass the limiter, got %d", w.Code)
	}
}
