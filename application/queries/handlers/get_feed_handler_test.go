package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ripple-backend/application/queries"
	"ripple-backend/application/services"
	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
	"ripple-backend/infrastructure/persistence/memory"
	pkgerrors "ripple-backend/pkg/errors"
)

type feedFixture struct {
	handler *GetFeedHandler
	users   *memory.UserRepository
	follows *memory.FollowRepository
	posts   *memory.PostRepository
}

func newFeedFixture(t *testing.T, userIDs ...string) *feedFixture {
	t.Helper()
	users := memory.NewUserRepository()
	for _, id := range userIDs {
		uid, err := valueobjects.NewUserID(id)
		require.NoError(t, err)
		users.Put(entities.User{ID: uid, Username: id, Name: id, LastActiveAt: time.Now()})
	}
	follows := memory.NewFollowRepository()
	posts := memory.NewPostRepository()
	graph := services.NewSocialGraphService(follows, users, zap.NewNop())
	return &feedFixture{
		handler: NewGetFeedHandler(graph, posts, users, zap.NewNop()),
		users:   users,
		follows: follows,
		posts:   posts,
	}
}

func (f *feedFixture) follow(t *testing.T, follower, followee string) {
	t.Helper()
	a, err := valueobjects.NewUserID(follower)
	require.NoError(t, err)
	b, err := valueobjects.NewUserID(followee)
	require.NoError(t, err)
	require.NoError(t, f.follows.CreateEdge(context.Background(), entities.FollowEdge{
		Follower: a, Followee: b, CreatedAt: time.Now(),
	}))
}

func (f *feedFixture) addPost(t *testing.T, author, content string, vis valueobjects.Visibility, at time.Time) valueobjects.PostID {
	t.Helper()
	return f.addPostWithID(t, valueobjects.NewPostID(), author, content, vis, at)
}

func (f *feedFixture) addPostWithID(t *testing.T, id valueobjects.PostID, author, content string, vis valueobjects.Visibility, at time.Time) valueobjects.PostID {
	t.Helper()
	authorID, err := valueobjects.NewUserID(author)
	require.NoError(t, err)
	post := entities.ReconstructPost(id, authorID, content, vis, nil, nil, at, at, 1)
	require.NoError(t, f.posts.Save(context.Background(), post))
	return id
}

func feedPostIDs(result *queries.FeedResult) []string {
	ids := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestGetFeedHandler_CandidateSetAndVisibility(t *testing.T) {
	f := newFeedFixture(t, "u", "a", "b", "s")
	f.follow(t, "u", "a")
	f.follow(t, "u", "b")

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	p1 := f.addPost(t, "a", "first", valueobjects.VisibilityPublic, base.Add(1*time.Minute))
	p2 := f.addPost(t, "b", "second", valueobjects.VisibilityFollowers, base.Add(2*time.Minute))
	f.addPost(t, "s", "third", valueobjects.VisibilityPublic, base.Add(3*time.Minute))

	result, err := f.handler.Handle(context.Background(), queries.GetFeedQuery{
		RequesterID: "u", Page: 1, Limit: 10,
	})
	require.NoError(t, err)

	// The stranger's post never enters the candidate set; newest first
	assert.Equal(t, []string{p2.String(), p1.String()}, feedPostIDs(result))
	assert.Equal(t, 2, result.Pagination.Total)
	assert.False(t, result.Pagination.HasMore)
}

func TestGetFeedHandler_PrivateNeverAppears(t *testing.T) {
	f := newFeedFixture(t, "u", "a")
	f.follow(t, "u", "a")

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	f.addPost(t, "a", "hidden", valueobjects.VisibilityPrivate, base)
	f.addPost(t, "u", "own secret", valueobjects.VisibilityPrivate, base.Add(time.Minute))
	visible := f.addPost(t, "u", "own public", valueobjects.VisibilityPublic, base.Add(2*time.Minute))

	result, err := f.handler.Handle(context.Background(), queries.GetFeedQuery{
		RequesterID: "u", Page: 1, Limit: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{visible.String()}, feedPostIDs(result))
}

func TestGetFeedHandler_FollowersPostNeedsEdge(t *testing.T) {
	f := newFeedFixture(t, "u", "a")
	// u does not follow a, so a's posts are not even candidates
	f.addPost(t, "a", "followers only", valueobjects.VisibilityFollowers, time.Now())

	result, err := f.handler.Handle(context.Background(), queries.GetFeedQuery{
		RequesterID: "u", Page: 1, Limit: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}

func TestGetFeedHandler_TieBreakOnEqualTimestamps(t *testing.T) {
	f := newFeedFixture(t, "u", "a")
	f.follow(t, "u", "a")

	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	idLow, err := valueobjects.NewPostIDFromString("00000000-0000-4000-8000-000000000001")
	require.NoError(t, err)
	idHigh, err := valueobjects.NewPostIDFromString("ffffffff-0000-4000-8000-000000000002")
	require.NoError(t, err)
	f.addPostWithID(t, idLow, "a", "older id", valueobjects.VisibilityPublic, at)
	f.addPostWithID(t, idHigh, "a", "newer id", valueobjects.VisibilityPublic, at)

	result, err := f.handler.Handle(context.Background(), queries.GetFeedQuery{
		RequesterID: "u", Page: 1, Limit: 10,
	})
	require.NoError(t, err)

	// Equal timestamps fall back to post ID descending
	assert.Equal(t, []string{idHigh.String(), idLow.String()}, feedPostIDs(result))
}

func TestGetFeedHandler_Pagination(t *testing.T) {
	f := newFeedFixture(t, "u", "a")
	f.follow(t, "u", "a")

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		f.addPost(t, "a", "post", valueobjects.VisibilityPublic, base.Add(time.Duration(i)*time.Minute))
	}

	first, err := f.handler.Handle(context.Background(), queries.GetFeedQuery{
		RequesterID: "u", Page: 1, Limit: 2,
	})
	require.NoError(t, err)
	assert.Len(t, first.Items, 2)
	assert.Equal(t, 1, first.Pagination.Current)
	assert.Equal(t, 3, first.Pagination.Pages)
	assert.Equal(t, 5, first.Pagination.Total)
	assert.True(t, first.Pagination.HasMore)

	last, err := f.handler.Handle(context.Background(), queries.GetFeedQuery{
		RequesterID: "u", Page: 3, Limit: 2,
	})
	require.NoError(t, err)
	assert.Len(t, last.Items, 1)
	assert.False(t, last.Pagination.HasMore)

	beyond, err := f.handler.Handle(context.Background(), queries.GetFeedQuery{
		RequesterID: "u", Page: 4, Limit: 2,
	})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.False(t, beyond.Pagination.HasMore)
}

func TestGetFeedHandler_UnknownRequester(t *testing.T) {
	f := newFeedFixture(t, "a")

	_, err := f.handler.Handle(context.Background(), queries.GetFeedQuery{
		RequesterID: "ghost", Page: 1, Limit: 10,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}
