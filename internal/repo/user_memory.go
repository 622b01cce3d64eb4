package repo

import (
	"context"
	"fmt"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type InMemoryUserRepository struct {
	db *MemoryDB
}

func NewInMemoryUserRepository(db *MemoryDB) *InMemoryUserRepository {
	return &InMemoryUserRepository{db: db}
}

func (r *InMemoryUserRepository) GetByUsername(_ context.Context, username string) (models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, user := range r.db.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (r *InMemoryUserRepository) CreateUser(_ context.Context, u models.User) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, user := range r.db.users {
		if user.Username == u.Username {
			return models.User{}, fmt.Errorf("username %q: %w", u.Username, ErrDuplicatedValueUnique)
		}
		if user.Email == u.Email {
			return models.User{}, fmt.Errorf("email %q: %w", u.Email, ErrDuplicatedValueUnique)
		}
	}

	now := r.db.now()
	u.ID = r.db.nextUserID
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = "user"
	}
	r.db.nextUserID++
	r.db.users = append(r.db.users, u)
	return u, nil
}
