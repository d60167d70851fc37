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

// CreatePostHandler handles post creation commands
type CreatePostHandler struct {
	postRepo ports.PostRepository
	userRepo ports.UserRepository
	logger   *zap.Logger
}

// NewCreatePostHandler creates a new post creation handler
func NewCreatePostHandler(
	postRepo ports.PostRepository,
	userRepo ports.UserRepository,
	logger *zap.Logger,
) *CreatePostHandler {
	return &CreatePostHandler{
		postRepo: postRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Handle executes the create post command and returns the created post
func (h *CreatePostHandler) Handle(ctx context.Context, cmd commands.CreatePostCommand) (*entities.Post, error) {
	author, err := valueobjects.NewUserID(cmd.AuthorID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	// The author must exist before anything is written
	if _, err := h.userRepo.GetByID(ctx, author); err != nil {
		return nil, err
	}

	visibility, err := valueobjects.ParseVisibility(cmd.Visibility)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	postID := valueobjects.NewPostID()
	if cmd.PostID != "" {
		postID, err = valueobjects.NewPostIDFromString(cmd.PostID)
		if err != nil {
			return nil, pkgerrors.NewValidationError("invalid post id")
		}
	}

	post, err := entities.NewPostWithID(postID, author, cmd.Content, visibility)
	if err != nil {
		return nil, err
	}

	if err := h.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}

	h.logger.Info("Post created",
		zap.String("postID", post.ID().String()),
		zap.String("author", author.String()),
		zap.String("visibility", visibility.String()),
		zap.Int("hashtags", len(post.Hashtags())),
	)
	return post, nil
}
