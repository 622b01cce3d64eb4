package handlers_test_suite

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	handler "github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

func importCSV(t *testing.T, csvData, mode string) handler.ImportProductsResult {
	t.Helper()
	buf, contentType := multipartCSV(csvData, "products.csv")

	path := "/api/products/import"
	if mode != "" {
		path += "?mode=" + mode
	}
	req := httptest.NewRequest(http.MethodPost, path, buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	w := doRequest(router, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	return decode[handler.ImportProductsResult](t, w)
}

func TestImportProductsHandler(t *testing.T) {
	t.Run("File with unique valid products", func(t *testing.T) {
		t.Cleanup(clearAll)
		supplier := createSupplier(t, router, "Import Supplier")

		csvData := fmt.Sprintf(`sku,name,description,category,price,quantity,reorder_level,supplier_id
IMP-1,Mouse,Wireless,Electronics,25.99,10,2,%[1]d
IMP-2,Keyboard,,Electronics,45.00,5,1,%[1]d`, supplier.ID)

		resp := importCSV(t, csvData, "")
		if resp.Imported != 2 {
			t.Errorf("expected 2 imported products, got %d", resp.Imported)
		}
		if len(resp.Errors) != 0 {
			t.Errorf("expected no errors, got %v", resp.Errors)
		}
	})

	t.Run("File with invalid rows", func(t *testing.T) {
		t.Cleanup(clearAll)
		supplier := createSupplier(t, router, "Import Supplier")

		csvData := fmt.Sprintf(`sku,name,price,quantity,supplier_id
IMP-1,Mouse,25.99,10,%[1]d
IMP-2,Broken,abc,3,%[1]d
,Nameless SKU,1.00,1,%[1]d
IMP-4,Negative,1.00,-1,%[1]d
IMP-5,Orphan,1.00,1,999
IMP-6,Keyboard,45.00,5,%[1]d`, supplier.ID)

		resp := importCSV(t, csvData, "")
		if resp.Imported != 2 {
			t.Errorf("expected 2 imported products, got %d", resp.Imported)
		}
		if len(resp.Errors) != 4 {
			t.Fatalf("expected 4 errors, got %v", resp.Errors)
		}
		if !strings.HasPrefix(resp.Errors[0], "row 3:") {
			t.Errorf("expected first error on row 3, got %q", resp.Errors[0])
		}
		if !strings.Contains(resp.Errors[3], "supplier not found") {
			t.Errorf("expected unknown supplier error, got %q", resp.Errors[3])
		}
	})

	t.Run("Rows past the stored range are rejected", func(t *testing.T) {
		t.Cleanup(clearAll)
		supplier := createSupplier(t, router, "Import Supplier")

		csvData := fmt.Sprintf(`sku,name,price,quantity,reorder_level,supplier_id
BIG-1,Huge stock,1.00,2147483648,0,%[1]d
BIG-2,Huge reorder,1.00,1,9223372036854775807,%[1]d
BIG-3,Fractional cent,0.333,1,0,%[1]d
BIG-4,Huge price,10000000000,1,0,%[1]d
BIG-5,Largest stock,9999999999.99,2147483647,2147483647,%[1]d`, supplier.ID)

		resp := importCSV(t, csvData, "")
		if resp.Imported != 1 {
			t.Errorf("expected 1 imported product, got %d", resp.Imported)
		}
		if len(resp.Errors) != 4 {
			t.Fatalf("expected 4 errors, got %v", resp.Errors)
		}
		for i, want := range []string{"invalid quantity", "invalid reorder_level", "invalid price", "invalid price"} {
			if !strings.Contains(resp.Errors[i], want) {
				t.Errorf("error %d: expected %q, got %q", i, want, resp.Errors[i])
			}
		}
	})

	t.Run("Existing products are skipped by default", func(t *testing.T) {
		t.Cleanup(clearAll)
		p := mustCreateProduct(t, router, "IMP-1", 7, 2, "10.00")

		csvData := fmt.Sprintf(`sku,name,price,quantity,supplier_id
IMP-1,Renamed,99.00,500,%d`, p.SupplierID)

		resp := importCSV(t, csvData, "skip")
		if resp.Imported != 0 || resp.Updated != 0 {
			t.Errorf("expected nothing imported, got %+v", resp)
		}
		if len(resp.Errors) != 1 || !strings.Contains(resp.Errors[0], "product 'IMP-1' already exists") {
			t.Errorf("unexpected errors %v", resp.Errors)
		}
		if got := fetchProduct(t, router, p.ID); got.Name != p.Name {
			t.Errorf("expected product untouched, got %+v", got)
		}
	})

	t.Run("Update mode never touches quantity", func(t *testing.T) {
		t.Cleanup(clearAll)
		p := mustCreateProduct(t, router, "IMP-1", 7, 2, "10.00")

		csvData := fmt.Sprintf(`sku,name,category,price,quantity,reorder_level,supplier_id
IMP-1,Renamed,Furniture,12.50,500,4,%d`, p.SupplierID)

		resp := importCSV(t, csvData, "update")
		if resp.Updated != 1 || resp.Imported != 0 {
			t.Fatalf("expected 1 updated product, got %+v", resp)
		}

		got := fetchProduct(t, router, p.ID)
		if got.Name != "Renamed" || got.Category != "Furniture" || got.ReorderLevel != 4 {
			t.Errorf("expected product fields to be updated, got %+v", got)
		}
		if !got.Price.Equal(mustDecimal(t, "12.50")) {
			t.Errorf("expected price 12.50, got %s", got.Price)
		}
		if got.Quantity != 7 {
			t.Errorf("expected quantity to stay 7, got %d", got.Quantity)
		}
	})

	t.Run("Missing required column", func(t *testing.T) {
		t.Cleanup(clearAll)
		buf, contentType := multipartCSV("name,price\nMouse,1.00", "products.csv")

		req := httptest.NewRequest(http.MethodPost, "/api/products/import", buf)
		req.Header.Set("Content-Type", contentType)
		w := doRequest(router, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if products := decode[[]models.Product](t, get(router, "/api/products")); len(products) != 0 {
			t.Errorf("expected no products, got %d", len(products))
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/products/import", nil)
		if w := doRequest(router, req); w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}
