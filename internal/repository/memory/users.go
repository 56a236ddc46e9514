package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
	"healthportal/internal/repository"
)

// UserRepository is the in-memory credential store. Emails are unique
// case-insensitively.
type UserRepository struct {
	t       *table[model.User]
	byEmail map[string]uuid.UUID
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{t: newTable[model.User](), byEmail: make(map[string]uuid.UUID)}
}

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	email := strings.ToLower(user.Email)

	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	if _, taken := r.byEmail[email]; taken {
		return apperrors.ErrDuplicateEmail
	}
	ensureID(&user.ID)
	user.Email = email
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt

	r.t.insert(user.ID, *user)
	r.byEmail[email] = user.ID
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	u, ok := r.t.rows[id]
	if !ok {
		return nil, fmt.Errorf("user %w", apperrors.ErrNotFound)
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("user %w", apperrors.ErrNotFound)
	}
	u := r.t.rows[id]
	return &u, nil
}

func (r *UserRepository) Update(_ context.Context, id uuid.UUID, upd model.UserUpdate) (*model.User, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	u, ok := r.t.rows[id]
	if !ok {
		return nil, fmt.Errorf("user %w", apperrors.ErrNotFound)
	}
	oldEmail := u.Email
	upd.Apply(&u)
	u.Email = strings.ToLower(u.Email)
	if u.Email != oldEmail {
		if _, taken := r.byEmail[u.Email]; taken {
			return nil, apperrors.ErrDuplicateEmail
		}
		delete(r.byEmail, oldEmail)
		r.byEmail[u.Email] = id
	}
	u.UpdatedAt = now()
	r.t.rows[id] = u
	return &u, nil
}

func (r *UserRepository) List(_ context.Context, filter repository.UserFilter) ([]model.User, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return r.t.filter(userMatcher(filter)), nil
}

func (r *UserRepository) Count(_ context.Context, filter repository.UserFilter) (int64, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return int64(len(r.t.filter(userMatcher(filter)))), nil
}

func userMatcher(f repository.UserFilter) func(model.User) bool {
	return func(u model.User) bool {
		if f.Role != nil && u.Role != *f.Role {
			return false
		}
		if f.Active != nil && u.IsActive != *f.Active {
			return false
		}
		return true
	}
}
