package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

// Server carries the dependencies shared by every HTTP handler.
type Server struct {
	repos    repo.Repositories
	ledger   *ledger.Ledger
	tokens   *auth.TokenIssuer
	log      *logger.Logger
	validate *validator.Validate
	health   func(ctx context.Context) error
	now      func() time.Time
}

type Options struct {
	Repos  repo.Repositories
	Ledger *ledger.Ledger
	Tokens *auth.TokenIssuer
	Logger *logger.Logger
	// Health is called by /healthz. Nil always reports healthy.
	Health func(ctx context.Context) error
	Now    func() time.Time
}

func NewServer(opts Options) *Server {
	s := &Server{
		repos:    opts.Repos,
		ledger:   opts.Ledger,
		tokens:   opts.Tokens,
		log:      opts.Logger,
		validate: newValidator(),
		health:   opts.Health,
		now:      opts.Now,
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.ledger == nil {
		s.ledger = ledger.New(opts.Repos.Transactions, s.log, nil)
	}
	if s.tokens == nil {
		s.tokens = auth.NewTokenIssuer("", "inventory-ledger", 15*time.Minute)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Tokens exposes the issuer so middleware can read optional bearer tokens.
func (s *Server) Tokens() *auth.TokenIssuer {
	return s.tokens
}

func (s *Server) startOfDay() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
