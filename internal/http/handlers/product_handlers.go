package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/shopspring/decimal"
)

// productWriteError maps repository failures shared by create and update.
func (s *Server) productWriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repo.ErrDuplicatedValueUnique):
		writeError(w, http.StatusBadRequest, "SKU already exists")
	case errors.Is(err, repo.ErrSupplierNotFound):
		writeValidationError(w, []ledger.FieldError{{Field: "supplier_id", Description: "supplier not found"}})
	case errors.Is(err, repo.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "product not found")
	default:
		s.internalError(w, r, "could not save product", err)
	}
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the catalogue with its opening stock
// @Tags products
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products [post]
func (s *Server) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if details := priceDetails("price", req.Price); details != nil {
		writeValidationError(w, details)
		return
	}

	created, err := s.repos.Products.Create(r.Context(), models.Product{
		SKU:          req.SKU,
		Name:         req.Name,
		Description:  req.Description,
		Category:     *req.Category,
		Price:        *req.Price,
		Quantity:     *req.Quantity,
		ReorderLevel: *req.ReorderLevel,
		SupplierID:   *req.SupplierID,
	})
	if err != nil {
		s.productWriteError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, created)
}

// GetProductsHandler godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {array} models.Product
// @Failure 500 {object} ErrorResponse
// @Router /api/products [get]
func (s *Server) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := s.repos.Products.GetAll(r.Context())
	if err != nil {
		s.internalError(w, r, "could not fetch products", err)
		return
	}
	s.respond(w, r, http.StatusOK, products)
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id} [get]
func (s *Server) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := s.repos.Products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		s.internalError(w, r, "could not fetch product", err)
		return
	}
	s.respond(w, r, http.StatusOK, product)
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Partial update. Quantity cannot be changed here; record an adjustment transaction instead.
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body ProductUpdateRequest true "Fields to change"
// @Success 200 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products/{id} [put]
func (s *Server) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req ProductUpdateRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if req.Quantity != nil {
		writeValidationError(w, []ledger.FieldError{{
			Field:       "quantity",
			Description: "quantity cannot be updated directly; record an adjustment transaction",
		}})
		return
	}
	if details := priceDetails("price", req.Price); details != nil {
		writeValidationError(w, details)
		return
	}

	updated, err := s.repos.Products.Update(r.Context(), id, repo.ProductChangeSet{
		SKU:          req.SKU,
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		ReorderLevel: req.ReorderLevel,
		SupplierID:   req.SupplierID,
	})
	if err != nil {
		s.productWriteError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, updated)
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Description Removes the product together with its transaction history
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products/{id} [delete]
func (s *Server) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}
	if err := s.repos.Products.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		s.internalError(w, r, "could not delete product", err)
		return
	}
	s.respond(w, r, http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}

func parseDecimalParam(r *http.Request, name string) (*decimal.Decimal, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.New("invalid " + name + " format")
	}
	return &d, nil
}

// FilterProductsHandler godoc
// @Summary Filter and paginate products
// @Tags products
// @Produce json
// @Param name query string false "Name contains (case-insensitive)"
// @Param category query string false "Exact category label"
// @Param supplier_id query int false "Supplier ID"
// @Param min_price query number false "Minimum price"
// @Param max_price query number false "Maximum price"
// @Param min_qty query int false "Minimum quantity"
// @Param max_qty query int false "Maximum quantity"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products/search [get]
func (s *Server) FilterProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repo.ProductFilter{Name: q.Get("name"), Category: q.Get("category")}

	var err error
	if filter.SupplierID, err = parseIntParam(r, "supplier_id"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.MinPrice, err = parseDecimalParam(r, "min_price"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.MaxPrice, err = parseDecimalParam(r, "max_price"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.MinQty, err = parseIntParam(r, "min_qty"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.MaxQty, err = parseIntParam(r, "max_qty"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.Offset, filter.Limit, err = parsePagination(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	products, total, err := s.repos.Products.Filter(r.Context(), filter)
	if err != nil {
		s.internalError(w, r, "could not filter products", err)
		return
	}
	s.respond(w, r, http.StatusOK, ProductsSearchResult{Data: products, Meta: Meta{TotalCount: total}})
}
