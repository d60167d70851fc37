package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ripple-backend/application/commands"
	"ripple-backend/application/commands/bus"
	"ripple-backend/application/queries"
	querybus "ripple-backend/application/queries/bus"
	"ripple-backend/pkg/auth"
	"ripple-backend/pkg/common"
	pkgerrors "ripple-backend/pkg/errors"
)

// UserHandler serves the follow and profile endpoints
type UserHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

func NewUserHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errors,
		logger:     logger,
	}
}

// Follow handles POST /users/{userID}/follow
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	h.sendFollowCommand(w, r, true)
}

// Unfollow handles DELETE /users/{userID}/follow
func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.sendFollowCommand(w, r, false)
}

func (h *UserHandler) sendFollowCommand(w http.ResponseWriter, r *http.Request, follow bool) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	targetID := chi.URLParam(r, "userID")

	var cmd bus.Command
	var message string
	if follow {
		cmd = commands.FollowUserCommand{ActorID: userCtx.UserID, TargetID: targetID}
		message = "now following"
	} else {
		cmd = commands.UnfollowUserCommand{ActorID: userCtx.UserID, TargetID: targetID}
		message = "unfollowed"
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": message})
}

// GetProfile handles GET /users/{userID}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	targetID := chi.URLParam(r, "userID")

	result, err := h.queryBus.Ask(r.Context(), queries.GetProfileQuery{
		UserID:      targetID,
		RequesterID: userCtx.UserID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
