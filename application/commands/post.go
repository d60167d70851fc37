package commands

import (
	pkgerrors "ripple-backend/pkg/errors"
	"ripple-backend/pkg/utils"
)

// CreatePostCommand represents the command to publish a post
type CreatePostCommand struct {
	PostID     string `json:"post_id"` // assigned by the handler when empty
	AuthorID   string `json:"author_id" validate:"required"`
	Content    string `json:"content" validate:"required,max=280"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=public followers private"`
}

// Validate implements bus.Command
func (c CreatePostCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// LikePostCommand represents the command to like a post
type LikePostCommand struct {
	PostID string `json:"post_id" validate:"required,uuid4"`
	UserID string `json:"user_id" validate:"required"`
}

// Validate implements bus.Command
func (c LikePostCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// UnlikePostCommand represents the command to remove a like
type UnlikePostCommand struct {
	PostID string `json:"post_id" validate:"required,uuid4"`
	UserID string `json:"user_id" validate:"required"`
}

// Validate implements bus.Command
func (c UnlikePostCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// CommentPostCommand represents the command to append a comment
type CommentPostCommand struct {
	PostID   string `json:"post_id" validate:"required,uuid4"`
	AuthorID string `json:"author_id" validate:"required"`
	Content  string `json:"content" validate:"required,max=280"`
}

// Validate implements bus.Command
func (c CommentPostCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// UpdatePostCommand represents the command to edit a post. Content and
// Visibility are each optional; at least one must be set.
type UpdatePostCommand struct {
	PostID     string `json:"post_id" validate:"required,uuid4"`
	EditorID   string `json:"editor_id" validate:"required"`
	Content    string `json:"content" validate:"omitempty,max=280"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=public followers private"`
}

// Validate implements bus.Command
func (c UpdatePostCommand) Validate() error {
	if c.Content == "" && c.Visibility == "" {
		return pkgerrors.NewValidationError("nothing to update")
	}
	if err := utils.ValidateStruct(c); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// DeletePostCommand represents the command to delete a post
type DeletePostCommand struct {
	PostID  string `json:"post_id" validate:"required,uuid4"`
	ActorID string `json:"actor_id" validate:"required"`
}

// Validate implements bus.Command
func (c DeletePostCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}
