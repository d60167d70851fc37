package handlers

import (
	"context"

	"go.uber.org/zap"

	"ripple-backend/application/ports"
	"ripple-backend/application/queries"
	"ripple-backend/application/services"
	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
	pkgerrors "ripple-backend/pkg/errors"
)

// GetProfileHandler handles public profile queries
type GetProfileHandler struct {
	graph    *services.SocialGraphService
	userRepo ports.UserRepository
	logger   *zap.Logger
}

// NewGetProfileHandler creates a new profile query handler
func NewGetProfileHandler(
	graph *services.SocialGraphService,
	userRepo ports.UserRepository,
	logger *zap.Logger,
) *GetProfileHandler {
	return &GetProfileHandler{
		graph:    graph,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Handle executes the profile query
func (h *GetProfileHandler) Handle(ctx context.Context, query queries.GetProfileQuery) (*queries.ProfileResult, error) {
	userID, err := valueobjects.NewUserID(query.UserID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	followers, err := h.graph.FollowersOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := h.graph.FollowingOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	followerSummaries, err := h.userRepo.GetSummaries(ctx, followers)
	if err != nil {
		return nil, err
	}
	followingSummaries, err := h.userRepo.GetSummaries(ctx, following)
	if err != nil {
		return nil, err
	}

	followedByRequester := false
	if query.RequesterID != "" && query.RequesterID != query.UserID {
		requester, err := valueobjects.NewUserID(query.RequesterID)
		if err == nil {
			followedByRequester, err = h.graph.IsFollowing(ctx, requester, userID)
			if err != nil {
				return nil, err
			}
		}
	}

	if followerSummaries == nil {
		followerSummaries = []entities.UserSummary{}
	}
	if followingSummaries == nil {
		followingSummaries = []entities.UserSummary{}
	}

	return &queries.ProfileResult{
		ID:                  user.ID.String(),
		Username:            user.Username,
		Name:                user.Name,
		Avatar:              user.Avatar,
		Bio:                 user.Bio,
		LastActiveAt:        user.LastActiveAt,
		Followers:           followerSummaries,
		Following:           followingSummaries,
		FollowersCount:      len(followers),
		FollowingCount:      len(following),
		FollowedByRequester: followedByRequester,
	}, nil
}
