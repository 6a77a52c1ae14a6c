package memory

import (
	"context"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
)

type UserRepository struct {
	base
}

func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{base{s: s}}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	defer r.lock()()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repo.ErrConflict
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Roles = model.NormalizeRoles(user.Roles.Strings())
	now := r.s.now()
	user.CreatedAt, user.UpdatedAt = now, now

	r.s.users = append(r.s.users, *user)
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	defer r.lock()()

	for _, u := range r.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repo.ErrUserNotFound
}

func (r *UserRepository) FindByID(ctx context.Context, userID string) (*model.User, error) {
	defer r.lock()()

	for _, u := range r.s.users {
		if u.ID == userID {
			u := u
			return &u, nil
		}
	}
	return nil, repo.ErrUserNotFound
}
