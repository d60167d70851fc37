package memory

import (
	"context"
	"sort"
	"sync"

	"ripple-backend/application/ports"
	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
	pkgerrors "ripple-backend/pkg/errors"
)

// FollowRepository is an in-memory follow store. Both directions of the
// relation are kept under one lock, so an edge is always visible from
// both sides or from neither.
type FollowRepository struct {
	mu        sync.RWMutex
	following map[string]map[string]struct{} // follower -> followees
	followers map[string]map[string]struct{} // followee -> followers
}

func NewFollowRepository() *FollowRepository {
	return &FollowRepository{
		following: make(map[string]map[string]struct{}),
		followers: make(map[string]map[string]struct{}),
	}
}

var _ ports.FollowRepository = (*FollowRepository)(nil)

func (r *FollowRepository) CreateEdge(ctx context.Context, edge entities.FollowEdge) error {
	follower := edge.Follower.String()
	followee := edge.Followee.String()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.following[follower][followee]; exists {
		return pkgerrors.NewConflictError("already following this user")
	}
	if r.following[follower] == nil {
		r.following[follower] = make(map[string]struct{})
	}
	if r.followers[followee] == nil {
		r.followers[followee] = make(map[string]struct{})
	}
	r.following[follower][followee] = struct{}{}
	r.followers[followee][follower] = struct{}{}
	return nil
}

func (r *FollowRepository) DeleteEdge(ctx context.Context, follower, followee valueobjects.UserID) error {
	followerID := follower.String()
	followeeID := followee.String()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.following[followerID][followeeID]; !exists {
		return pkgerrors.NewConflictError("not following this user")
	}
	delete(r.following[followerID], followeeID)
	delete(r.followers[followeeID], followerID)
	return nil
}

func (r *FollowRepository) EdgeExists(ctx context.Context, follower, followee valueobjects.UserID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.following[follower.String()][followee.String()]
	return exists, nil
}

func (r *FollowRepository) FollowersOf(ctx context.Context, user valueobjects.UserID) ([]valueobjects.UserID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collectIDs(r.followers[user.String()])
}

func (r *FollowRepository) FollowingOf(ctx context.Context, user valueobjects.UserID) ([]valueobjects.UserID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collectIDs(r.following[user.String()])
}

func collectIDs(set map[string]struct{}) ([]valueobjects.UserID, error) {
	raw := make([]string, 0, len(set))
	for id := range set {
		raw = append(raw, id)
	}
	sort.Strings(raw)

	ids := make([]valueobjects.UserID, 0, len(raw))
	for _, s := range raw {
		id, err := valueobjects.NewUserID(s)
		if err != nil {
			return nil, pkgerrors.NewInternalError("stored edge has malformed user id", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
