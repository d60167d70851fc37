package handlers

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"ripple-backend/application/ports"
	"ripple-backend/application/queries"
	"ripple-backend/application/services"
	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
	"ripple-backend/pkg/common"
	pkgerrors "ripple-backend/pkg/errors"
)

// GetFeedHandler assembles a user's home feed. The feed is pull-based: the
// candidate author set and visibility filter are evaluated per request, and
// ordering is strict reverse-chronological with the post ID as tie-breaker
// so pages are stable under equal timestamps.
type GetFeedHandler struct {
	graph    *services.SocialGraphService
	postRepo ports.PostRepository
	userRepo ports.UserRepository
	logger   *zap.Logger
}

// NewGetFeedHandler creates a new feed handler
func NewGetFeedHandler(
	graph *services.SocialGraphService,
	postRepo ports.PostRepository,
	userRepo ports.UserRepository,
	logger *zap.Logger,
) *GetFeedHandler {
	return &GetFeedHandler{
		graph:    graph,
		postRepo: postRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Handle executes the feed query
func (h *GetFeedHandler) Handle(ctx context.Context, query queries.GetFeedQuery) (*queries.FeedResult, error) {
	requester, err := valueobjects.NewUserID(query.RequesterID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	if _, err := h.userRepo.GetByID(ctx, requester); err != nil {
		return nil, err
	}

	// Candidate author set: the requester plus everyone they follow
	following, err := h.graph.FollowingOf(ctx, requester)
	if err != nil {
		return nil, err
	}
	followingSet := make(map[string]struct{}, len(following))
	for _, u := range following {
		followingSet[u.String()] = struct{}{}
	}
	authors := append(append([]valueobjects.UserID(nil), following...), requester)

	candidates, err := h.postRepo.GetByAuthors(ctx, authors)
	if err != nil {
		return nil, err
	}

	// Visibility filter: public always; followers needs a one-way edge from
	// the requester to the author (or self-authorship); private never
	// appears in a feed.
	visible := lo.Filter(candidates, func(p *entities.Post, _ int) bool {
		switch p.Visibility() {
		case valueobjects.VisibilityPublic:
			return true
		case valueobjects.VisibilityFollowers:
			if p.Author().Equals(requester) {
				return true
			}
			_, follows := followingSet[p.Author().String()]
			return follows
		default:
			return false
		}
	})

	sortPostsForFeed(visible)

	params := common.PaginationParams{Page: query.Page, Limit: query.Limit}
	page := paginatePosts(visible, params)

	items, err := buildPostViews(ctx, h.userRepo, page, requester)
	if err != nil {
		return nil, err
	}

	return &queries.FeedResult{
		Items:      items,
		Pagination: common.BuildPaginationMeta(params, len(items), len(visible)),
	}, nil
}

// sortPostsForFeed orders posts newest-first, tie-broken by post ID
// descending for deterministic ordering under equal timestamps.
func sortPostsForFeed(posts []*entities.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		ti, tj := posts[i].CreatedAt(), posts[j].CreatedAt()
		if ti.Equal(tj) {
			return posts[i].ID().String() > posts[j].ID().String()
		}
		return ti.After(tj)
	})
}

// paginatePosts applies skip/limit to an ordered post slice
func paginatePosts(posts []*entities.Post, params common.PaginationParams) []*entities.Post {
	offset := params.CalculateOffset()
	if offset >= len(posts) {
		return nil
	}
	end := offset + params.Limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end]
}

// buildPostViews resolves author summaries and maps posts into their
// client-facing shape.
func buildPostViews(ctx context.Context, userRepo ports.UserRepository, posts []*entities.Post, viewer valueobjects.UserID) ([]queries.PostView, error) {
	authorIDs := lo.UniqBy(
		lo.Map(posts, func(p *entities.Post, _ int) valueobjects.UserID { return p.Author() }),
		func(id valueobjects.UserID) string { return id.String() },
	)

	summaries, err := userRepo.GetSummaries(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(summaries, func(s entities.UserSummary) string { return s.ID.String() })

	views := make([]queries.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, buildPostView(p, byID[p.Author().String()], viewer))
	}
	return views, nil
}

// buildPostView maps one post entity into its client-facing shape
func buildPostView(p *entities.Post, author entities.UserSummary, viewer valueobjects.UserID) queries.PostView {
	comments := lo.Map(p.Comments(), func(c entities.Comment, _ int) queries.CommentView {
		return queries.CommentView{
			ID:        c.ID,
			Author:    entities.UserSummary{ID: c.Author},
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		}
	})
	return queries.PostView{
		ID:            p.ID().String(),
		Author:        author,
		Content:       p.Content(),
		Visibility:    p.Visibility().String(),
		Hashtags:      p.Hashtags(),
		LikesCount:    p.LikesCount(),
		CommentsCount: p.CommentsCount(),
		LikedByViewer: p.IsLikedBy(viewer),
		Comments:      comments,
		CreatedAt:     p.CreatedAt(),
	}
}
