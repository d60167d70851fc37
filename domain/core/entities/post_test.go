package entities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ripple-backend/domain/core/valueobjects"
	pkgerrors "ripple-backend/pkg/errors"
)

func mustUserID(t *testing.T, s string) valueobjects.UserID {
	t.Helper()
	id, err := valueobjects.NewUserID(s)
	require.NoError(t, err)
	return id
}

func TestNewPost_Validation(t *testing.T) {
	author := mustUserID(t, "alice")

	t.Run("rejects empty content", func(t *testing.T) {
		_, err := NewPost(author, "   ", valueobjects.VisibilityPublic)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("rejects content over 280 chars", func(t *testing.T) {
		_, err := NewPost(author, strings.Repeat("a", 281), valueobjects.VisibilityPublic)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("accepts content at exactly 280 chars", func(t *testing.T) {
		post, err := NewPost(author, strings.Repeat("a", 280), valueobjects.VisibilityPublic)
		require.NoError(t, err)
		assert.Len(t, post.Content(), 280)
	})

	t.Run("rejects zero author", func(t *testing.T) {
		_, err := NewPost(valueobjects.UserID{}, "hello", valueobjects.VisibilityPublic)
		require.Error(t, err)
	})
}

func TestPost_HashtagsAndMentions(t *testing.T) {
	author := mustUserID(t, "alice")

	post, err := NewPost(author, "Go #Golang tips #golang #Testing with @bob and @carol", valueobjects.VisibilityPublic)
	require.NoError(t, err)

	// Hashtags are lowercased and deduplicated, first occurrence wins
	assert.Equal(t, []string{"golang", "testing"}, post.Hashtags())
	assert.Equal(t, []string{"bob", "carol"}, post.Mentions())
}

func TestPost_LikeSemantics(t *testing.T) {
	author := mustUserID(t, "alice")
	liker := mustUserID(t, "bob")

	post, err := NewPost(author, "hello", valueobjects.VisibilityPublic)
	require.NoError(t, err)

	require.NoError(t, post.Like(liker))
	assert.Equal(t, 1, post.LikesCount())
	assert.True(t, post.IsLikedBy(liker))

	err = post.Like(liker)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err), "double like must be a conflict")
	assert.Equal(t, 1, post.LikesCount())

	require.NoError(t, post.Unlike(liker))
	assert.False(t, post.IsLikedBy(liker))

	err = post.Unlike(liker)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err), "unlike without like must be a conflict")
}

func TestPost_Comments(t *testing.T) {
	author := mustUserID(t, "alice")
	commenter := mustUserID(t, "bob")

	post, err := NewPost(author, "hello", valueobjects.VisibilityPublic)
	require.NoError(t, err)

	first, err := post.AddComment(commenter, "c1", "nice one")
	require.NoError(t, err)
	_, err = post.AddComment(author, "c2", "thanks")
	require.NoError(t, err)

	assert.Equal(t, 2, post.CommentsCount())
	assert.Equal(t, first.ID, post.Comments()[0].ID, "comments keep insertion order")

	_, err = post.AddComment(commenter, "c3", strings.Repeat("x", 281))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestPost_AuthorOnlyEdits(t *testing.T) {
	author := mustUserID(t, "alice")
	other := mustUserID(t, "bob")

	post, err := NewPost(author, "hello", valueobjects.VisibilityPublic)
	require.NoError(t, err)

	err = post.UpdateContent(other, "hijacked")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsForbidden(err))
	assert.Equal(t, "hello", post.Content())

	err = post.ChangeVisibility(other, valueobjects.VisibilityPrivate)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsForbidden(err))

	require.NoError(t, post.UpdateContent(author, "edited #update"))
	assert.Equal(t, []string{"update"}, post.Hashtags())
}

func TestPost_CanBeViewedBy(t *testing.T) {
	author := mustUserID(t, "alice")
	follower := mustUserID(t, "bob")
	stranger := mustUserID(t, "carol")

	public, err := NewPost(author, "public", valueobjects.VisibilityPublic)
	require.NoError(t, err)
	followersOnly, err := NewPost(author, "followers", valueobjects.VisibilityFollowers)
	require.NoError(t, err)
	private, err := NewPost(author, "private", valueobjects.VisibilityPrivate)
	require.NoError(t, err)

	assert.True(t, public.CanBeViewedBy(stranger, false))

	assert.True(t, followersOnly.CanBeViewedBy(author, false), "author always sees their own post")
	assert.True(t, followersOnly.CanBeViewedBy(follower, true))
	assert.False(t, followersOnly.CanBeViewedBy(stranger, false))

	assert.True(t, private.CanBeViewedBy(author, false))
	assert.False(t, private.CanBeViewedBy(follower, true), "private is never visible to others")
}
