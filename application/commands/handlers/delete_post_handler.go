package handlers

import (
	"context"

	"go.uber.org/zap"

	"ripple-backend/application/commands"
	"ripple-backend/application/ports"
	"ripple-backend/domain/core/valueobjects"
	pkgerrors "ripple-backend/pkg/errors"
)

// DeletePostHandler handles post deletion commands
type DeletePostHandler struct {
	postRepo ports.PostRepository
	logger   *zap.Logger
}

// NewDeletePostHandler creates a new delete handler
func NewDeletePostHandler(postRepo ports.PostRepository, logger *zap.Logger) *DeletePostHandler {
	return &DeletePostHandler{postRepo: postRepo, logger: logger}
}

// Handle executes the delete post command
func (h *DeletePostHandler) Handle(ctx context.Context, cmd commands.DeletePostCommand) error {
	postID, err := valueobjects.NewPostIDFromString(cmd.PostID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	actor, err := valueobjects.NewUserID(cmd.ActorID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	post, err := h.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	// Verify ownership
	if !post.Author().Equals(actor) {
		return pkgerrors.NewForbiddenError("only the author can delete a post")
	}

	if err := h.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	h.logger.Info("Post deleted",
		zap.String("postID", postID.String()),
		zap.String("author", actor.String()),
	)
	return nil
}
