package queries

import (
	"time"

	"ripple-backend/domain/core/entities"
	pkgerrors "ripple-backend/pkg/errors"
)

// GetProfileQuery requests a user's public profile with both sides of the
// follow relation expanded into summaries.
type GetProfileQuery struct {
	UserID      string
	RequesterID string
}

// Validate implements bus.Query
func (q GetProfileQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user ID is required")
	}
	return nil
}

// ProfileResult is the public profile shape
type ProfileResult struct {
	ID                  string                 `json:"id"`
	Username            string                 `json:"username"`
	Name                string                 `json:"name"`
	Avatar              string                 `json:"avatar,omitempty"`
	Bio                 string                 `json:"bio,omitempty"`
	LastActiveAt        time.Time              `json:"lastActiveAt"`
	Followers           []entities.UserSummary `json:"followers"`
	Following           []entities.UserSummary `json:"following"`
	FollowersCount      int                    `json:"followersCount"`
	FollowingCount      int                    `json:"followingCount"`
	FollowedByRequester bool                   `json:"followedByRequester"`
}
