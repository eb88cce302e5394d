package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/iliyamo/users-service/internal/domain"
	"github.com/iliyamo/users-service/internal/model"
)

// MemoryRepo is an in-memory user repository used by tests and local runs
// without a database. The single mutex makes the uniqueness check and the
// write one atomic step, mirroring the database's unique-key guarantee.
type MemoryRepo struct {
	mu    sync.Mutex
	users map[string]model.User // keyed by id
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]model.User)}
}

func (r *MemoryRepo) Create(_ context.Context, u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.UserAlreadyExists("email", u.Email)
		}
		if existing.Username == u.Username {
			return domain.UserAlreadyExists("username", u.Username)
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *MemoryRepo) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, domain.UserNotFound(email)
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return model.User{}, domain.UserNotFound(id)
	}
	return u, nil
}

func (r *MemoryRepo) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(func(model.User) bool { return true }), nil
}

func (r *MemoryRepo) ListByRole(_ context.Context, role model.Role) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(func(u model.User) bool { return u.Role == role }), nil
}

func (r *MemoryRepo) UpdateEmail(_ context.Context, id, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.UserNotFound(id)
	}
	for otherID, other := range r.users {
		if otherID != id && other.Email == email {
			return domain.UserAlreadyExists("email", email)
		}
	}
	u.Email = email
	r.users[id] = u
	return nil
}

func (r *MemoryRepo) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.UserNotFound(id)
	}
	u.IsActive = active
	r.users[id] = u
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.UserNotFound(id)
	}
	delete(r.users, id)
	return nil
}

// snapshot copies matching users ordered by creation time, oldest first.
// Callers must hold the mutex.
func (r *MemoryRepo) snapshot(match func(model.User) bool) []model.User {
	out := make([]model.User, 0)
	for _, u := range r.users {
		if match(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
