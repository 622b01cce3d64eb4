package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
	api "github.com/rogerio-castellano/inventory-ledger/internal/http"
	handler "github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/metrics"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/shopspring/decimal"
)

const adminPassword = "secret"

var (
	memDB    *repo.MemoryDB
	repos    repo.Repositories
	registry *prometheus.Registry
	router   http.Handler
	token    string
)

func init() {
	memDB = repo.NewMemoryDB()
	repos = repo.NewInMemoryRepositories(memDB)
	registry = prometheus.NewRegistry()
	m := metrics.New(registry)

	server := handler.NewServer(handler.Options{
		Repos:  repos,
		Ledger: ledger.New(repos.Transactions, logger.Nop(), m),
		Tokens: auth.NewTokenIssuer("test-secret", "inventory-ledger", time.Hour),
		Logger: logger.Nop(),
	})
	router = api.NewRouter(api.RouterConfig{
		Server:   server,
		Logger:   logger.Nop(),
		Metrics:  m,
		Gatherer: registry,
	})

	createAdmin()
	var err error
	token, err = generateToken(router, "admin", adminPassword)
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

func createAdmin() {
	hash, _ := auth.HashPassword(adminPassword)
	repos.Users.CreateUser(context.Background(), models.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: hash,
		Role:         "admin",
	})
}

// clearAll empties the store and restores the admin user (id 1).
func clearAll() {
	memDB.Clear()
	createAdmin()
}

func generateToken(r http.Handler, username, password string) (string, error) {
	w := doJSON(r, http.MethodPost, "/api/login", handler.CredentialsRequest{Username: username, Password: password})
	if w.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d", w.Code)
	}

	var resp handler.LoginResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func doRequest(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return doRequest(r, req)
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	return doRequest(r, httptest.NewRequest(http.MethodGet, path, nil))
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("error decoding response: %v (body %q)", err, w.Body.String())
	}
	return v
}

func createSupplier(t *testing.T, r http.Handler, name string) models.Supplier {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/suppliers", map[string]any{"name": name})
	if w.Code != http.StatusCreated {
		t.Fatalf("supplier creation failed: %d %s", w.Code, w.Body.String())
	}
	return decode[models.Supplier](t, w)
}

func productPayload(sku string, quantity, reorder int, price string, supplierID int) map[string]any {
	return map[string]any{
		"sku":           sku,
		"name":          "Product " + sku,
		"description":   "test product",
		"category":      "Electronics",
		"price":         json.Number(price),
		"quantity":      quantity,
		"reorder_level": reorder,
		"supplier_id":   supplierID,
	}
}

func createProduct(r http.Handler, payload map[string]any) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, "/api/products", payload)
}

// mustCreateProduct creates a supplier-backed product and returns it.
func mustCreateProduct(t *testing.T, r http.Handler, sku string, quantity, reorder int, price string) models.Product {
	t.Helper()
	supplier := createSupplier(t, r, "Supplier for "+sku)
	w := createProduct(r, productPayload(sku, quantity, reorder, price, supplier.ID))
	if w.Code != http.StatusCreated {
		t.Fatalf("product creation failed: %d %s", w.Code, w.Body.String())
	}
	return decode[models.Product](t, w)
}

func recordTransaction(r http.Handler, productID int, kind string, quantity int, unitPrice string) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, "/api/transactions", map[string]any{
		"product_id":       productID,
		"transaction_type": kind,
		"quantity":         quantity,
		"unit_price":       json.Number(unitPrice),
	})
}

func mustRecord(t *testing.T, r http.Handler, productID int, kind string, quantity int, unitPrice string) models.Transaction {
	t.Helper()
	w := recordTransaction(r, productID, kind, quantity, unitPrice)
	if w.Code != http.StatusCreated {
		t.Fatalf("transaction %s %d failed: %d %s", kind, quantity, w.Code, w.Body.String())
	}
	return decode[models.Transaction](t, w)
}

func fetchProduct(t *testing.T, r http.Handler, id int) models.Product {
	t.Helper()
	w := get(r, fmt.Sprintf("/api/products/%d", id))
	if w.Code != http.StatusOK {
		t.Fatalf("fetch product %d failed: %d", id, w.Code)
	}
	return decode[models.Product](t, w)
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func hasDetail(resp handler.ErrorResponse, field string) bool {
	for _, d := range resp.Details {
		if d.Field == field {
			return true
		}
	}
	return false
}
