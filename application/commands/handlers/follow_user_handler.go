package handlers

import (
	"context"

	"go.uber.org/zap"

	"ripple-backend/application/commands"
	"ripple-backend/application/services"
	"ripple-backend/domain/core/valueobjects"
	pkgerrors "ripple-backend/pkg/errors"
)

// FollowUserHandler handles follow commands
type FollowUserHandler struct {
	graph  *services.SocialGraphService
	logger *zap.Logger
}

// NewFollowUserHandler creates a new follow handler
func NewFollowUserHandler(graph *services.SocialGraphService, logger *zap.Logger) *FollowUserHandler {
	return &FollowUserHandler{graph: graph, logger: logger}
}

// Handle executes the follow command
func (h *FollowUserHandler) Handle(ctx context.Context, cmd commands.FollowUserCommand) error {
	actor, err := valueobjects.NewUserID(cmd.ActorID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	target, err := valueobjects.NewUserID(cmd.TargetID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	return h.graph.Follow(ctx, actor, target)
}
