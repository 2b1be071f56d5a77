package memory

import (
	"context"
	"sync"

	"github.com/jwalitptl/careportal/internal/model"
	"github.com/jwalitptl/careportal/internal/repository"
)

type userRepository struct {
	mu    sync.RWMutex
	users []*model.User
}

// NewUserRepository returns a process-local credential store.
func NewUserRepository() repository.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	cp := *user

	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, &cp)
	return nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// GetByEmail matches exactly; duplicate registrations resolve to the first.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}
