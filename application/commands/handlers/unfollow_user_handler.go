package handlers

import (
	"context"

	"go.uber.org/zap"

	"ripple-backend/application/commands"
	"ripple-backend/application/services"
	"ripple-backend/domain/core/valueobjects"
	pkgerrors "ripple-backend/pkg/errors"
)

// UnfollowUserHandler handles unfollow commands
type UnfollowUserHandler struct {
	graph  *services.SocialGraphService
	logger *zap.Logger
}

// NewUnfollowUserHandler creates a new unfollow handler
func NewUnfollowUserHandler(graph *services.SocialGraphService, logger *zap.Logger) *UnfollowUserHandler {
	return &UnfollowUserHandler{graph: graph, logger: logger}
}

// Handle executes the unfollow command
func (h *UnfollowUserHandler) Handle(ctx context.Context, cmd commands.UnfollowUserCommand) error {
	actor, err := valueobjects.NewUserID(cmd.ActorID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	target, err := valueobjects.NewUserID(cmd.TargetID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	return h.graph.Unfollow(ctx, actor, target)
}
