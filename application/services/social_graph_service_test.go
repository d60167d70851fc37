package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
	"ripple-backend/infrastructure/persistence/memory"
	pkgerrors "ripple-backend/pkg/errors"
)

func newGraphFixture(t *testing.T, userIDs ...string) (*SocialGraphService, *memory.FollowRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	for _, id := range userIDs {
		uid, err := valueobjects.NewUserID(id)
		require.NoError(t, err)
		users.Put(entities.User{ID: uid, Username: id, Name: id, LastActiveAt: time.Now()})
	}
	follows := memory.NewFollowRepository()
	return NewSocialGraphService(follows, users, zap.NewNop()), follows
}

func uid(t *testing.T, s string) valueobjects.UserID {
	t.Helper()
	id, err := valueobjects.NewUserID(s)
	require.NoError(t, err)
	return id
}

func TestSocialGraphService_FollowUnfollowRoundTrip(t *testing.T) {
	svc, _ := newGraphFixture(t, "alice", "bob")
	ctx := context.Background()
	alice, bob := uid(t, "alice"), uid(t, "bob")

	require.NoError(t, svc.Follow(ctx, alice, bob))

	following, err := svc.FollowingOf(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []valueobjects.UserID{bob}, following)

	followers, err := svc.FollowersOf(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, []valueobjects.UserID{alice}, followers)

	require.NoError(t, svc.Unfollow(ctx, alice, bob))

	// Both sides must be back to their pre-follow state
	following, err = svc.FollowingOf(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, following)

	followers, err = svc.FollowersOf(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, followers)
}

func TestSocialGraphService_SelfFollowIsConflict(t *testing.T) {
	svc, _ := newGraphFixture(t, "alice")
	ctx := context.Background()
	alice := uid(t, "alice")

	err := svc.Follow(ctx, alice, alice)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestSocialGraphService_DuplicateFollowIsConflict(t *testing.T) {
	svc, _ := newGraphFixture(t, "alice", "bob")
	ctx := context.Background()
	alice, bob := uid(t, "alice"), uid(t, "bob")

	require.NoError(t, svc.Follow(ctx, alice, bob))

	err := svc.Follow(ctx, alice, bob)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))

	// No state change from the rejected call
	following, err := svc.FollowingOf(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, following, 1)
}

func TestSocialGraphService_UnfollowWithoutEdgeIsConflict(t *testing.T) {
	svc, _ := newGraphFixture(t, "alice", "bob")
	ctx := context.Background()

	err := svc.Unfollow(ctx, uid(t, "alice"), uid(t, "bob"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestSocialGraphService_UnknownTargetIsNotFound(t *testing.T) {
	svc, _ := newGraphFixture(t, "alice")
	ctx := context.Background()

	err := svc.Follow(ctx, uid(t, "alice"), uid(t, "ghost"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestSocialGraphService_ConcurrentFollowExactlyOneSucceeds(t *testing.T) {
	svc, follows := newGraphFixture(t, "alice", "bob")
	ctx := context.Background()
	alice, bob := uid(t, "alice"), uid(t, "bob")

	const attempts = 16
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Follow(ctx, alice, bob)
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case pkgerrors.IsConflict(err):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicted)

	exists, err := follows.EdgeExists(ctx, alice, bob)
	require.NoError(t, err)
	assert.True(t, exists)

	followers, err := follows.FollowersOf(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, followers, 1, "the edge exists exactly once")
}

func TestSocialGraphService_IsFollowing(t *testing.T) {
	svc, _ := newGraphFixture(t, "alice", "bob")
	ctx := context.Background()
	alice, bob := uid(t, "alice"), uid(t, "bob")

	following, err := svc.IsFollowing(ctx, alice, bob)
	require.NoError(t, err)
	assert.False(t, following)

	require.NoError(t, svc.Follow(ctx, alice, bob))

	following, err = svc.IsFollowing(ctx, alice, bob)
	require.NoError(t, err)
	assert.True(t, following)

	// The relation is directed
	reverse, err := svc.IsFollowing(ctx, bob, alice)
	require.NoError(t, err)
	assert.False(t, reverse)
}
