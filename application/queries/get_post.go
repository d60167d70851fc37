package queries

import (
	pkgerrors "ripple-backend/pkg/errors"
)

// GetPostQuery requests a single post, subject to its visibility policy
type GetPostQuery struct {
	PostID      string
	RequesterID string
}

// Validate implements bus.Query
func (q GetPostQuery) Validate() error {
	if q.PostID == "" {
		return pkgerrors.NewValidationError("post ID is required")
	}
	if q.RequesterID == "" {
		return pkgerrors.NewValidationError("requester ID is required")
	}
	return nil
}

// ListPublicPostsQuery requests one page of the public timeline
type ListPublicPostsQuery struct {
	Page  int
	Limit int
}

// Validate implements bus.Query
func (q ListPublicPostsQuery) Validate() error {
	if q.Page < 1 {
		return pkgerrors.NewValidationError("page must be >= 1")
	}
	if q.Limit < 1 || q.Limit > 100 {
		return pkgerrors.NewValidationError("limit must be between 1 and 100")
	}
	return nil
}
