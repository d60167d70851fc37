package handlers

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ripple-backend/application/commands"
	"ripple-backend/application/ports"
	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
	pkgerrors "ripple-backend/pkg/errors"
)

// CommentPostHandler handles comment commands
type CommentPostHandler struct {
	postRepo ports.PostRepository
	logger   *zap.Logger
}

// NewCommentPostHandler creates a new comment handler
func NewCommentPostHandler(postRepo ports.PostRepository, logger *zap.Logger) *CommentPostHandler {
	return &CommentPostHandler{postRepo: postRepo, logger: logger}
}

// Handle executes the comment command and returns the appended comment
func (h *CommentPostHandler) Handle(ctx context.Context, cmd commands.CommentPostCommand) (*entities.Comment, error) {
	postID, err := valueobjects.NewPostIDFromString(cmd.PostID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	author, err := valueobjects.NewUserID(cmd.AuthorID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	var comment *entities.Comment
	err = h.postRepo.Update(ctx, postID, func(p *entities.Post) error {
		c, err := p.AddComment(author, uuid.New().String(), cmd.Content)
		if err != nil {
			return err
		}
		comment = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}
