package handlers

import (
	"context"

	"go.uber.org/zap"

	"ripple-backend/application/commands"
	"ripple-backend/application/ports"
	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
	pkgerrors "ripple-backend/pkg/errors"
)

// LikePostHandler handles like and unlike commands
type LikePostHandler struct {
	postRepo ports.PostRepository
	logger   *zap.Logger
}

// NewLikePostHandler creates a new like handler
func NewLikePostHandler(postRepo ports.PostRepository, logger *zap.Logger) *LikePostHandler {
	return &LikePostHandler{postRepo: postRepo, logger: logger}
}

// HandleLike executes the like command
func (h *LikePostHandler) HandleLike(ctx context.Context, cmd commands.LikePostCommand) error {
	postID, user, err := parsePostActor(cmd.PostID, cmd.UserID)
	if err != nil {
		return err
	}
	return h.postRepo.Update(ctx, postID, func(p *entities.Post) error {
		return p.Like(user)
	})
}

// HandleUnlike executes the unlike command
func (h *LikePostHandler) HandleUnlike(ctx context.Context, cmd commands.UnlikePostCommand) error {
	postID, user, err := parsePostActor(cmd.PostID, cmd.UserID)
	if err != nil {
		return err
	}
	return h.postRepo.Update(ctx, postID, func(p *entities.Post) error {
		return p.Unlike(user)
	})
}

func parsePostActor(postID, userID string) (valueobjects.PostID, valueobjects.UserID, error) {
	id, err := valueobjects.NewPostIDFromString(postID)
	if err != nil {
		return valueobjects.PostID{}, valueobjects.UserID{}, pkgerrors.NewValidationError(err.Error())
	}
	user, err := valueobjects.NewUserID(userID)
	if err != nil {
		return valueobjects.PostID{}, valueobjects.UserID{}, pkgerrors.NewValidationError(err.Error())
	}
	return id, user, nil
}
