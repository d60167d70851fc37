package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ripple-backend/application/commands"
	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
	"ripple-backend/infrastructure/persistence/memory"
	pkgerrors "ripple-backend/pkg/errors"
)

func newUpdateFixture(t *testing.T) (*UpdatePostHandler, *memory.PostRepository, valueobjects.PostID) {
	t.Helper()
	repo := memory.NewPostRepository()
	author, err := valueobjects.NewUserID("author")
	require.NoError(t, err)
	post, err := entities.NewPost(author, "first draft #draft", valueobjects.VisibilityPublic)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), post))
	return NewUpdatePostHandler(repo, zap.NewNop()), repo, post.ID()
}

func TestUpdatePostHandler_AuthorEditsContent(t *testing.T) {
	handler, repo, postID := newUpdateFixture(t)
	ctx := context.Background()

	err := handler.Handle(ctx, commands.UpdatePostCommand{
		PostID:   postID.String(),
		EditorID: "author",
		Content:  "final version #shipped",
	})
	require.NoError(t, err)

	post, err := repo.GetByID(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, "final version #shipped", post.Content())
	assert.Equal(t, []string{"shipped"}, post.Hashtags())
}

func TestUpdatePostHandler_AuthorChangesVisibility(t *testing.T) {
	handler, repo, postID := newUpdateFixture(t)
	ctx := context.Background()

	err := handler.Handle(ctx, commands.UpdatePostCommand{
		PostID:     postID.String(),
		EditorID:   "author",
		Visibility: "private",
	})
	require.NoError(t, err)

	post, err := repo.GetByID(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, valueobjects.VisibilityPrivate, post.Visibility())
}

func TestUpdatePostHandler_NonAuthorForbidden(t *testing.T) {
	handler, repo, postID := newUpdateFixture(t)
	ctx := context.Background()

	err := handler.Handle(ctx, commands.UpdatePostCommand{
		PostID:   postID.String(),
		EditorID: "stranger",
		Content:  "defaced",
	})
	assert.True(t, pkgerrors.IsForbidden(err))

	post, err := repo.GetByID(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, "first draft #draft", post.Content())
}

func TestUpdatePostHandler_FailedUpdateLeavesPostUnchanged(t *testing.T) {
	handler, repo, postID := newUpdateFixture(t)
	ctx := context.Background()

	// The content edit succeeds but the visibility value is rejected;
	// nothing from the attempt may land.
	err := handler.Handle(ctx, commands.UpdatePostCommand{
		PostID:     postID.String(),
		EditorID:   "author",
		Content:    "changed",
		Visibility: "everyone",
	})
	assert.True(t, pkgerrors.IsValidation(err))

	post, err := repo.GetByID(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, "first draft #draft", post.Content())
	assert.Equal(t, valueobjects.VisibilityPublic, post.Visibility())
}

func TestUpdatePostHandler_UnknownPost(t *testing.T) {
	handler, _, _ := newUpdateFixture(t)

	err := handler.Handle(context.Background(), commands.UpdatePostCommand{
		PostID:   valueobjects.NewPostID().String(),
		EditorID: "author",
		Content:  "anything",
	})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestUpdatePostCommand_RequiresAField(t *testing.T) {
	cmd := commands.UpdatePostCommand{
		PostID:   valueobjects.NewPostID().String(),
		EditorID: "author",
	}
	assert.True(t, pkgerrors.IsValidation(cmd.Validate()))
}
