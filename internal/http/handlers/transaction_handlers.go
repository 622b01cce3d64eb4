package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

// CreateTransactionHandler godoc
// @Summary Record a stock movement
// @Description in adds stock, out removes it (never below zero), adjustment sets the counted quantity, transfer is recorded without changing stock.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body TransactionRequest true "Movement to record"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/transactions [post]
func (s *Server) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	entry := ledger.Entry{
		ProductID: *req.ProductID,
		Type:      req.TransactionType,
		Quantity:  *req.Quantity,
		UnitPrice: *req.UnitPrice,
		Notes:     req.Notes,
	}
	if req.UserID != nil {
		entry.UserID = *req.UserID
	} else if id, ok := auth.UserIDFromContext(r.Context()); ok {
		entry.UserID = id
	}

	created, err := s.ledger.Record(r.Context(), entry)
	if err != nil {
		var verr *ledger.ValidationError
		switch {
		case errors.As(err, &verr):
			writeValidationError(w, verr.Fields)
		case errors.Is(err, repo.ErrProductNotFound):
			writeError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, repo.ErrInsufficientStock):
			writeError(w, http.StatusBadRequest, "Insufficient stock")
		case errors.Is(err, repo.ErrQuantityOutOfRange):
			writeValidationError(w, []ledger.FieldError{{
				Field:       "quantity",
				Description: fmt.Sprintf("resulting stock would exceed %d", models.MaxQuantity),
			}})
		default:
			s.internalError(w, r, "could not record transaction", err)
		}
		return
	}
	s.respond(w, r, http.StatusCreated, created)
}

// transactionFilter reads the shared query parameters of the listing endpoints.
func transactionFilter(r *http.Request) (repo.TransactionFilter, error) {
	var (
		f   repo.TransactionFilter
		err error
	)
	if f.ProductID, err = parseIntParam(r, "product_id"); err != nil {
		return f, err
	}
	if t := strings.TrimSpace(r.URL.Query().Get("type")); t != "" {
		f.Type = models.TransactionType(strings.ToLower(t))
		if !f.Type.Valid() {
			return f, errors.New("type must be one of in, out, transfer, adjustment")
		}
	}
	if f.Since, err = parseTimeParam(r, "since"); err != nil {
		return f, err
	}
	if f.Until, err = parseTimeParam(r, "until"); err != nil {
		return f, err
	}
	if f.Offset, f.Limit, err = parsePagination(r); err != nil {
		return f, err
	}
	return f, nil
}

// GetTransactionsHandler godoc
// @Summary List transactions, newest first
// @Description Without parameters every transaction is returned. The unpaginated count is sent in X-Total-Count.
// @Tags transactions
// @Produce json
// @Param product_id query int false "Product ID"
// @Param type query string false "Transaction type"
// @Param since query string false "Created at or after (RFC3339)"
// @Param until query string false "Created at or before (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {array} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/transactions [get]
func (s *Server) GetTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := transactionFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	transactions, total, err := s.ledger.List(r.Context(), filter)
	if err != nil {
		s.internalError(w, r, "could not fetch transactions", err)
		return
	}
	s.respond(w, r, http.StatusOK, transactions, http.Header{"X-Total-Count": {strconv.Itoa(total)}})
}

// GetProductTransactionsHandler godoc
// @Summary Transaction history of one product
// @Tags transactions
// @Produce json
// @Param id path int true "Product ID"
// @Param type query string false "Transaction type"
// @Param since query string false "Created at or after (RFC3339)"
// @Param until query string false "Created at or before (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} TransactionsSearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products/{id}/transactions [get]
func (s *Server) GetProductTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}
	if _, err := s.repos.Products.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		s.internalError(w, r, "could not fetch product", err)
		return
	}

	filter, err := transactionFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.ProductID = &id

	transactions, total, err := s.ledger.List(r.Context(), filter)
	if err != nil {
		s.internalError(w, r, "could not fetch transactions", err)
		return
	}
	s.respond(w, r, http.StatusOK, TransactionsSearchResult{Data: transactions, Meta: Meta{TotalCount: total}})
}

var exportHeader = []string{
	"id", "product_id", "product_name", "transaction_type", "quantity",
	"unit_price", "total_price", "notes", "user_id", "created_at",
}

// ExportTransactionsHandler godoc
// @Summary Export transactions
// @Tags transactions
// @Produce text/csv,application/json
// @Param format query string true "Export format (csv or json)"
// @Param product_id query int false "Product ID"
// @Param type query string false "Transaction type"
// @Param since query string false "Created at or after (RFC3339)"
// @Param until query string false "Created at or before (RFC3339)"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/transactions/export [get]
func (s *Server) ExportTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format != "csv" && format != "json" {
		writeError(w, http.StatusBadRequest, "format must be 'csv' or 'json'")
		return
	}

	filter, err := transactionFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	transactions, _, err := s.ledger.List(r.Context(), filter)
	if err != nil {
		s.internalError(w, r, "could not fetch transactions", err)
		return
	}

	switch format {
	case "json":
		s.respond(w, r, http.StatusOK, transactions, http.Header{
			"Content-Disposition": {`attachment; filename="transactions.json"`},
		})

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write(exportHeader)
		for _, t := range transactions {
			_ = csvWriter.Write([]string{
				strconv.Itoa(t.ID),
				strconv.Itoa(t.ProductID),
				t.ProductName,
				string(t.Type),
				strconv.Itoa(t.Quantity),
				t.UnitPrice.StringFixed(2),
				t.TotalPrice.StringFixed(2),
				t.Notes,
				strconv.Itoa(t.UserID),
				t.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			s.log.Error(r.Context(), "failed to write CSV export", err)
		}
	}
}
