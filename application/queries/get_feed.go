package queries

import (
	"time"

	"ripple-backend/domain/core/entities"
	"ripple-backend/pkg/common"
	pkgerrors "ripple-backend/pkg/errors"
)

// GetFeedQuery requests one page of the requester's home feed
type GetFeedQuery struct {
	RequesterID string
	Page        int
	Limit       int
}

// Validate implements bus.Query
func (q GetFeedQuery) Validate() error {
	if q.RequesterID == "" {
		return pkgerrors.NewValidationError("requester ID is required")
	}
	if q.Page < 1 {
		return pkgerrors.NewValidationError("page must be >= 1")
	}
	if q.Limit < 1 || q.Limit > 100 {
		return pkgerrors.NewValidationError("limit must be between 1 and 100")
	}
	return nil
}

// CommentView is the client-facing shape of a comment
type CommentView struct {
	ID        string               `json:"id"`
	Author    entities.UserSummary `json:"author"`
	Content   string               `json:"content"`
	CreatedAt time.Time            `json:"createdAt"`
}

// PostView is the client-facing shape of a post
type PostView struct {
	ID            string               `json:"id"`
	Author        entities.UserSummary `json:"author"`
	Content       string               `json:"content"`
	Visibility    string               `json:"visibility"`
	Hashtags      []string             `json:"hashtags,omitempty"`
	LikesCount    int                  `json:"likesCount"`
	CommentsCount int                  `json:"commentsCount"`
	LikedByViewer bool                 `json:"likedByViewer"`
	Comments      []CommentView        `json:"comments,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// FeedResult is one page of a computed feed
type FeedResult struct {
	Items      []PostView             `json:"items"`
	Pagination *common.PaginationInfo `json:"pagination"`
}
