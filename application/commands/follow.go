package commands

import (
	pkgerrors "ripple-backend/pkg/errors"
	"ripple-backend/pkg/utils"
)

// FollowUserCommand represents the command to follow another user
type FollowUserCommand struct {
	ActorID  string `json:"actor_id" validate:"required"`
	TargetID string `json:"target_id" validate:"required"`
}

// Validate implements bus.Command
func (c FollowUserCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// UnfollowUserCommand represents the command to remove a follow edge
type UnfollowUserCommand struct {
	ActorID  string `json:"actor_id" validate:"required"`
	TargetID string `json:"target_id" validate:"required"`
}

// Validate implements bus.Command
func (c UnfollowUserCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}
