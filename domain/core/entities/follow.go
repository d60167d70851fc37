package entities

import (
	"time"

	"ripple-backend/domain/core/valueobjects"
)

// FollowEdge is the directed follow relation. The same edge is always
// visible from both sides: the follower's "following" set and the followee's
// "followers" set are two projections of one record, never written
// independently.
type FollowEdge struct {
	Follower  valueobjects.UserID `json:"follower"`
	Followee  valueobjects.UserID `json:"followee"`
	CreatedAt time.Time           `json:"createdAt"`
}

// IsSelfEdge reports whether the edge would point at its own origin.
// Self-edges are forbidden by the graph invariant.
func (e FollowEdge) IsSelfEdge() bool {
	return e.Follower.Equals(e.Followee)
}
