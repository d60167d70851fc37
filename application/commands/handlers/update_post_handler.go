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

// UpdatePostHandler handles post edit commands
type UpdatePostHandler struct {
	postRepo ports.PostRepository
	logger   *zap.Logger
}

// NewUpdatePostHandler creates a new update handler
func NewUpdatePostHandler(postRepo ports.PostRepository, logger *zap.Logger) *UpdatePostHandler {
	return &UpdatePostHandler{postRepo: postRepo, logger: logger}
}

// Handle executes the update post command. The entity enforces that only
// the author may edit; either rejection aborts the whole update.
func (h *UpdatePostHandler) Handle(ctx context.Context, cmd commands.UpdatePostCommand) error {
	postID, editor, err := parsePostActor(cmd.PostID, cmd.EditorID)
	if err != nil {
		return err
	}

	err = h.postRepo.Update(ctx, postID, func(p *entities.Post) error {
		if cmd.Content != "" {
			if err := p.UpdateContent(editor, cmd.Content); err != nil {
				return err
			}
		}
		if cmd.Visibility != "" {
			v, err := valueobjects.ParseVisibility(cmd.Visibility)
			if err != nil {
				return pkgerrors.NewValidationError(err.Error())
			}
			if err := p.ChangeVisibility(editor, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	h.logger.Info("Post updated",
		zap.String("postID", postID.String()),
		zap.String("editor", editor.String()),
	)
	return nil
}
