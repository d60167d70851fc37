package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"ripple-backend/application/queries"
	querybus "ripple-backend/application/queries/bus"
	"ripple-backend/pkg/auth"
	"ripple-backend/pkg/common"
	pkgerrors "ripple-backend/pkg/errors"
)

// FeedHandler serves GET /feed
type FeedHandler struct {
	queryBus *querybus.QueryBus
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

func NewFeedHandler(queryBus *querybus.QueryBus, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{
		queryBus: queryBus,
		errors:   errors,
		logger:   logger,
	}
}

// GetFeed returns the requester's personalized timeline
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	params := common.ExtractPaginationParams(r)

	result, err := h.queryBus.Ask(r.Context(), queries.GetFeedQuery{
		RequesterID: userCtx.UserID,
		Page:        params.Page,
		Limit:       params.Limit,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
