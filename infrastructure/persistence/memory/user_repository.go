package memory

import (
	"context"
	"sync"
	"time"

	"ripple-backend/application/ports"
	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
	pkgerrors "ripple-backend/pkg/errors"
)

// UserRepository is an in-memory user store for development and tests.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]entities.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]entities.User)}
}

var _ ports.UserRepository = (*UserRepository)(nil)

// Put inserts or replaces a user. Development seeding and test setup
// use this; it is not part of the ports.UserRepository contract.
func (r *UserRepository) Put(user entities.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID.String()] = user
}

func (r *UserRepository) GetByID(ctx context.Context, id valueobjects.UserID) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("user not found")
	}
	copied := user
	return &copied, nil
}

func (r *UserRepository) GetSummaries(ctx context.Context, ids []valueobjects.UserID) ([]entities.UserSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	summaries := make([]entities.UserSummary, 0, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id.String()]; ok {
			summaries = append(summaries, user.Summary())
		}
	}
	return summaries, nil
}

func (r *UserRepository) TouchLastActive(ctx context.Context, id valueobjects.UserID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id.String()]
	if !ok {
		return pkgerrors.NewNotFoundError("user not found")
	}
	user.LastActiveAt = at
	r.users[id.String()] = user
	return nil
}
