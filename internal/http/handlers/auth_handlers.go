package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

// RegisterHandler godoc
// @Summary Register a new user and return a JWT token
// @Description Tokens identify the caller only; no endpoint requires one.
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "New user"
// @Success 201 {object} RegisterResult
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/users [post]
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		s.internalError(w, r, "failed to hash password", err)
		return
	}

	user, err := s.repos.Users.CreateUser(r.Context(), models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			writeError(w, http.StatusConflict, "username or email already exists")
			return
		}
		s.internalError(w, r, "failed to register user", err)
		return
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		s.internalError(w, r, "failed to generate token", err)
		return
	}
	s.respond(w, r, http.StatusCreated, RegisterResult{Message: "user registered", User: user, Token: token})
}

// LoginHandler godoc
// @Summary Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds CredentialsRequest
	if !s.decodeAndValidate(w, r, &creds) {
		return
	}

	user, err := s.repos.Users.GetByUsername(r.Context(), creds.Username)
	if err != nil {
		if !errors.Is(err, repo.ErrUserNotFound) {
			s.internalError(w, r, "could not load user", err)
			return
		}
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, creds.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, expires, err := s.tokens.Issue(user)
	if err != nil {
		s.internalError(w, r, "could not generate token", err)
		return
	}
	s.respond(w, r, http.StatusOK, LoginResult{Token: token, ExpiresAt: expires})
}
