package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
	"github.com/rogerio-castellano/inventory-ledger/internal/config"
	"github.com/rogerio-castellano/inventory-ledger/internal/db"
	api "github.com/rogerio-castellano/inventory-ledger/internal/http"
	handler "github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/stretchr/testify/require"
)

var (
	setupOnce sync.Once
	setupErr  error

	database *sql.DB
	repos    repo.Repositories
	router   http.Handler
)

func setup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, setupErr = db.Connect(ctx, config.DatabaseConfig{URL: os.Getenv("DATABASE_URL"), MaxOpenConns: 20})
	if setupErr != nil {
		return
	}
	if setupErr = db.Migrate(ctx, database); setupErr != nil {
		return
	}

	repos = repo.NewPostgresRepositories(database)
	server := handler.NewServer(handler.Options{
		Repos:  repos,
		Health: database.PingContext,
	})
	router = api.NewRouter(api.RouterConfig{Server: server})
}

// requireDB skips the test when no Postgres is configured and resets every
// table before and after it runs.
func requireDB(t *testing.T) http.Handler {
	t.Helper()
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set")
	}
	setupOnce.Do(setup)
	require.NoError(t, setupErr, "database setup")

	truncate(t)
	t.Cleanup(func() { truncate(t) })
	return router
}

func truncate(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx,
		"TRUNCATE TABLE transactions, products, suppliers, categories, users RESTART IDENTITY CASCADE")
	require.NoError(t, err, "failed to truncate tables")
}

func createUser(t *testing.T, username, password string) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u, err := repos.Users.CreateUser(context.Background(), models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
	})
	require.NoError(t, err)
	return u
}

func doJSON(r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), "body %q", w.Body.String())
	return v
}

func createSupplier(t *testing.T, r http.Handler, name string) models.Supplier {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/suppliers", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Supplier](t, w)
}

func productPayload(sku string, quantity, reorder int, price string, supplierID int) map[string]any {
	return map[string]any{
		"sku":           sku,
		"name":          "Product " + sku,
		"category":      "Electronics",
		"price":         json.Number(price),
		"quantity":      quantity,
		"reorder_level": reorder,
		"supplier_id":   supplierID,
	}
}

func createProduct(t *testing.T, r http.Handler, sku string, quantity, reorder int, price string) models.Product {
	t.Helper()
	supplier := createSupplier(t, r, "Supplier "+sku)
	w := doJSON(r, http.MethodPost, "/api/products", productPayload(sku, quantity, reorder, price, supplier.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
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

func quantityOf(t *testing.T, r http.Handler, id int) int {
	t.Helper()
	w := get(r, fmt.Sprintf("/api/products/%d", id))
	require.Equal(t, http.StatusOK, w.Code)
	return decode[models.Product](t, w).Quantity
}
