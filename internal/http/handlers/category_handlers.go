package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

// CreateCategoryHandler godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param category body CategoryRequest true "Category to add"
// @Success 201 {object} models.Category
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/categories [post]
func (s *Server) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	created, err := s.repos.Categories.Create(r.Context(), models.Category{Name: req.Name, Description: req.Description})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			writeError(w, http.StatusBadRequest, "Category already exists")
			return
		}
		s.internalError(w, r, "could not create category", err)
		return
	}
	s.respond(w, r, http.StatusCreated, created)
}

// GetCategoriesHandler godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {array} models.Category
// @Failure 500 {object} ErrorResponse
// @Router /api/categories [get]
func (s *Server) GetCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := s.repos.Categories.GetAll(r.Context())
	if err != nil {
		s.internalError(w, r, "could not fetch categories", err)
		return
	}
	s.respond(w, r, http.StatusOK, categories)
}
