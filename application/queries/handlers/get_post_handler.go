package handlers

import (
	"context"

	"go.uber.org/zap"

	"ripple-backend/application/ports"
	"ripple-backend/application/queries"
	"ripple-backend/application/services"
	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
	"ripple-backend/pkg/common"
	pkgerrors "ripple-backend/pkg/errors"
)

// GetPostHandler handles single-post and public-timeline queries
type GetPostHandler struct {
	graph    *services.SocialGraphService
	postRepo ports.PostRepository
	userRepo ports.UserRepository
	logger   *zap.Logger
}

// NewGetPostHandler creates a new post query handler
func NewGetPostHandler(
	graph *services.SocialGraphService,
	postRepo ports.PostRepository,
	userRepo ports.UserRepository,
	logger *zap.Logger,
) *GetPostHandler {
	return &GetPostHandler{
		graph:    graph,
		postRepo: postRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Handle executes the single-post query, enforcing the visibility policy
func (h *GetPostHandler) Handle(ctx context.Context, query queries.GetPostQuery) (*queries.PostView, error) {
	postID, err := valueobjects.NewPostIDFromString(query.PostID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	requester, err := valueobjects.NewUserID(query.RequesterID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	post, err := h.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	follows := false
	if !post.Author().Equals(requester) {
		follows, err = h.graph.IsFollowing(ctx, requester, post.Author())
		if err != nil {
			return nil, err
		}
	}
	if !post.CanBeViewedBy(requester, follows) {
		return nil, pkgerrors.NewForbiddenError("you do not have permission to view this post")
	}

	summaries, err := h.userRepo.GetSummaries(ctx, []valueobjects.UserID{post.Author()})
	if err != nil {
		return nil, err
	}
	var author entities.UserSummary
	if len(summaries) > 0 {
		author = summaries[0]
	}

	view := buildPostView(post, author, requester)
	return &view, nil
}

// HandleList executes the public-timeline query
func (h *GetPostHandler) HandleList(ctx context.Context, query queries.ListPublicPostsQuery) (*queries.FeedResult, error) {
	posts, err := h.postRepo.GetPublic(ctx)
	if err != nil {
		return nil, err
	}

	sortPostsForFeed(posts)

	params := common.PaginationParams{Page: query.Page, Limit: query.Limit}
	page := paginatePosts(posts, params)

	// The zero viewer ID just reports likedByViewer=false everywhere.
	items, err := buildPostViews(ctx, h.userRepo, page, valueobjects.UserID{})
	if err != nil {
		return nil, err
	}

	return &queries.FeedResult{
		Items:      items,
		Pagination: common.BuildPaginationMeta(params, len(items), len(posts)),
	}, nil
}
