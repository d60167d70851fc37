package services

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"go.uber.org/zap"

	"ripple-backend/application/ports"
	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
	pkgerrors "ripple-backend/pkg/errors"
)

// pairLockCount is the size of the mutex stripe set. Mutations on the same
// (follower, followee) pair always hash to the same stripe; disjoint pairs
// almost always proceed on different stripes.
const pairLockCount = 128

// SocialGraphService is the only mutation entry point for the follow graph.
// It guarantees the symmetry invariant: an edge is either present on both
// the follower's "following" side and the followee's "followers" side, or on
// neither. Callers never write one side alone.
type SocialGraphService struct {
	follows   ports.FollowRepository
	users     ports.UserRepository
	pairLocks [pairLockCount]sync.Mutex
	logger    *zap.Logger
}

// NewSocialGraphService creates a new social graph service
func NewSocialGraphService(
	follows ports.FollowRepository,
	users ports.UserRepository,
	logger *zap.Logger,
) *SocialGraphService {
	return &SocialGraphService{
		follows: follows,
		users:   users,
		logger:  logger,
	}
}

// Follow creates the edge actor -> target. Self-follows and duplicate edges
// are conflicts and leave the graph unchanged.
func (s *SocialGraphService) Follow(ctx context.Context, actor, target valueobjects.UserID) error {
	if actor.Equals(target) {
		return pkgerrors.NewConflictError("you cannot follow yourself")
	}

	if _, err := s.users.GetByID(ctx, target); err != nil {
		return err
	}

	lock := s.pairLock(actor, target)
	lock.Lock()
	defer lock.Unlock()

	edge := entities.FollowEdge{
		Follower:  actor,
		Followee:  target,
		CreatedAt: time.Now(),
	}
	if err := s.follows.CreateEdge(ctx, edge); err != nil {
		return err
	}

	s.logger.Debug("Follow edge created",
		zap.String("follower", actor.String()),
		zap.String("followee", target.String()),
	)
	return nil
}

// Unfollow removes the edge actor -> target. Removing a missing edge is a
// conflict and leaves the graph unchanged.
func (s *SocialGraphService) Unfollow(ctx context.Context, actor, target valueobjects.UserID) error {
	if actor.Equals(target) {
		return pkgerrors.NewConflictError("you cannot unfollow yourself")
	}

	if _, err := s.users.GetByID(ctx, target); err != nil {
		return err
	}

	lock := s.pairLock(actor, target)
	lock.Lock()
	defer lock.Unlock()

	if err := s.follows.DeleteEdge(ctx, actor, target); err != nil {
		return err
	}

	s.logger.Debug("Follow edge removed",
		zap.String("follower", actor.String()),
		zap.String("followee", target.String()),
	)
	return nil
}

// IsFollowing reports whether actor currently follows target
func (s *SocialGraphService) IsFollowing(ctx context.Context, actor, target valueobjects.UserID) (bool, error) {
	return s.follows.EdgeExists(ctx, actor, target)
}

// FollowersOf lists the users following the given user
func (s *SocialGraphService) FollowersOf(ctx context.Context, user valueobjects.UserID) ([]valueobjects.UserID, error) {
	return s.follows.FollowersOf(ctx, user)
}

// FollowingOf lists the users the given user follows
func (s *SocialGraphService) FollowingOf(ctx context.Context, user valueobjects.UserID) ([]valueobjects.UserID, error) {
	return s.follows.FollowingOf(ctx, user)
}

// pairLock returns the stripe serializing mutations on one directed pair
func (s *SocialGraphService) pairLock(a, b valueobjects.UserID) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(a.String()))
	h.Write([]byte{0})
	h.Write([]byte(b.String()))
	return &s.pairLocks[h.Sum32()%pairLockCount]
}
