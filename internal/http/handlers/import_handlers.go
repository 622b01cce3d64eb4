package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/shopspring/decimal"
)

const maxImportBytes = 10 << 20

var requiredImportColumns = []string{"sku", "name", "price", "supplier_id"}

type csvRow struct {
	line         int
	SKU          string
	Name         string
	Description  string
	Category     string
	Price        decimal.Decimal
	Quantity     int
	ReorderLevel int
	SupplierID   int
}

func parseCSV(r io.Reader) ([]csvRow, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, errors.New("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredImportColumns {
		if _, ok := index[col]; !ok {
			return nil, nil, fmt.Errorf("missing CSV column %q", col)
		}
	}

	get := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var (
		rows     []csvRow
		problems []string
	)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("CSV read error: %v", err)
		}

		row := csvRow{
			line:        line,
			SKU:         get(record, "sku"),
			Name:        get(record, "name"),
			Description: get(record, "description"),
			Category:    get(record, "category"),
		}
		if err := row.parseNumbers(get(record, "price"), get(record, "quantity"), get(record, "reorder_level"), get(record, "supplier_id")); err != nil {
			problems = append(problems, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		if err := row.validate(); err != nil {
			problems = append(problems, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		rows = append(rows, row)
	}
	return rows, problems, nil
}

func (r *csvRow) parseNumbers(price, quantity, reorder, supplier string) error {
	var err error
	if r.Price, err = decimal.NewFromString(price); err != nil {
		return errors.New("invalid price")
	}
	if quantity != "" {
		if r.Quantity, err = strconv.Atoi(quantity); err != nil {
			return errors.New("invalid quantity")
		}
	}
	if reorder != "" {
		if r.ReorderLevel, err = strconv.Atoi(reorder); err != nil {
			return errors.New("invalid reorder_level")
		}
	}
	if r.SupplierID, err = strconv.Atoi(supplier); err != nil {
		return errors.New("invalid supplier_id")
	}
	return nil
}

func (r csvRow) validate() error {
	if err := models.CheckPrice(r.Price); err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}
	switch {
	case r.SKU == "":
		return errors.New("missing sku")
	case r.Name == "":
		return errors.New("missing name")
	case r.Quantity < 0 || r.Quantity > models.MaxQuantity:
		return errors.New("invalid quantity")
	case r.ReorderLevel < 0 || r.ReorderLevel > models.MaxQuantity:
		return errors.New("invalid reorder_level")
	case r.SupplierID <= 0 || r.SupplierID > models.MaxQuantity:
		return errors.New("invalid supplier_id")
	}
	return nil
}

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Columns: sku, name, description, category, price, quantity, reorder_level, supplier_id. Rows are matched by SKU. mode=update rewrites existing products but never their quantity.
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products/import [post]
func (s *Server) ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip"
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	rows, problems, err := parseCSV(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := ImportProductsResult{Errors: problems}
	if result.Errors == nil {
		result.Errors = []string{}
	}
	ctx := r.Context()

	for _, row := range rows {
		existing, err := s.repos.Products.GetBySKU(ctx, row.SKU)
		switch {
		case err == nil:
			if mode == "skip" {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: product '%s' already exists", row.line, row.SKU))
				continue
			}
			_, err = s.repos.Products.Update(ctx, existing.ID, repo.ProductChangeSet{
				Name:         &row.Name,
				Description:  &row.Description,
				Category:     &row.Category,
				Price:        &row.Price,
				ReorderLevel: &row.ReorderLevel,
				SupplierID:   &row.SupplierID,
			})
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", row.line, importFailure(err)))
				continue
			}
			result.Updated++

		case errors.Is(err, repo.ErrProductNotFound):
			_, err = s.repos.Products.Create(ctx, models.Product{
				SKU:          row.SKU,
				Name:         row.Name,
				Description:  row.Description,
				Category:     row.Category,
				Price:        row.Price,
				Quantity:     row.Quantity,
				ReorderLevel: row.ReorderLevel,
				SupplierID:   row.SupplierID,
			})
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", row.line, importFailure(err)))
				continue
			}
			result.Imported++

		default:
			s.internalError(w, r, "could not import products", err)
			return
		}
	}

	s.log.Info(s.log.WithFields(ctx, map[string]any{
		"mode":     mode,
		"imported": result.Imported,
		"updated":  result.Updated,
		"rejected": len(result.Errors),
	}), "product import finished")
	s.respond(w, r, http.StatusOK, result)
}

func importFailure(err error) string {
	switch {
	case errors.Is(err, repo.ErrSupplierNotFound):
		return "supplier not found"
	case errors.Is(err, repo.ErrDuplicatedValueUnique):
		return "SKU already exists"
	default:
		return "could not save product"
	}
}
