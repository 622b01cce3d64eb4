package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

// CreateSupplierHandler godoc
// @Summary Create a supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Param supplier body SupplierRequest true "Supplier to add"
// @Success 201 {object} models.Supplier
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/suppliers [post]
func (s *Server) CreateSupplierHandler(w http.ResponseWriter, r *http.Request) {
	var req SupplierRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	created, err := s.repos.Suppliers.Create(r.Context(), models.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	})
	if err != nil {
		s.internalError(w, r, "could not create supplier", err)
		return
	}
	s.respond(w, r, http.StatusCreated, created)
}

// GetSuppliersHandler godoc
// @Summary List suppliers
// @Tags suppliers
// @Produce json
// @Success 200 {array} models.Supplier
// @Failure 500 {object} ErrorResponse
// @Router /api/suppliers [get]
func (s *Server) GetSuppliersHandler(w http.ResponseWriter, r *http.Request) {
	suppliers, err := s.repos.Suppliers.GetAll(r.Context())
	if err != nil {
		s.internalError(w, r, "could not fetch suppliers", err)
		return
	}
	s.respond(w, r, http.StatusOK, suppliers)
}

// GetSupplierByIDHandler godoc
// @Summary Get supplier by ID
// @Tags suppliers
// @Produce json
// @Param id path int true "Supplier ID"
// @Success 200 {object} models.Supplier
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/suppliers/{id} [get]
func (s *Server) GetSupplierByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid supplier ID")
		return
	}

	supplier, err := s.repos.Suppliers.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrSupplierNotFound) {
			writeError(w, http.StatusNotFound, "supplier not found")
			return
		}
		s.internalError(w, r, "could not fetch supplier", err)
		return
	}
	s.respond(w, r, http.StatusOK, supplier)
}

// UpdateSupplierHandler godoc
// @Summary Update a supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Param id path int true "Supplier ID"
// @Param supplier body SupplierUpdateRequest true "Fields to change"
// @Success 200 {object} models.Supplier
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/suppliers/{id} [put]
func (s *Server) UpdateSupplierHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid supplier ID")
		return
	}

	var req SupplierUpdateRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := s.repos.Suppliers.Update(r.Context(), id, repo.SupplierChangeSet{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	})
	if err != nil {
		if errors.Is(err, repo.ErrSupplierNotFound) {
			writeError(w, http.StatusNotFound, "supplier not found")
			return
		}
		s.internalError(w, r, "could not update supplier", err)
		return
	}
	s.respond(w, r, http.StatusOK, updated)
}

// DeleteSupplierHandler godoc
// @Summary Delete a supplier
// @Description Fails while any product references the supplier
// @Tags suppliers
// @Produce json
// @Param id path int true "Supplier ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/suppliers/{id} [delete]
func (s *Server) DeleteSupplierHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid supplier ID")
		return
	}

	err = s.repos.Suppliers.Delete(r.Context(), id)
	switch {
	case err == nil:
		s.respond(w, r, http.StatusOK, MessageResponse{Message: "Supplier deleted successfully"})
	case errors.Is(err, repo.ErrSupplierNotFound):
		writeError(w, http.StatusNotFound, "supplier not found")
	case errors.Is(err, repo.ErrSupplierHasProducts):
		writeError(w, http.StatusBadRequest, "Cannot delete supplier with associated products")
	default:
		s.internalError(w, r, "could not delete supplier", err)
	}
}
