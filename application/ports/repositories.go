package ports

import (
	"context"
	"time"

	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
)

// UserRepository defines the interface for user lookups.
// Profile CRUD and credential issuance live in an external service; this
// port covers only what the realtime and feed paths need.
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id valueobjects.UserID) (*entities.User, error)

	// GetSummaries retrieves compact profiles for a set of user IDs
	GetSummaries(ctx context.Context, ids []valueobjects.UserID) ([]entities.UserSummary, error)

	// TouchLastActive updates a user's last-active marker
	TouchLastActive(ctx context.Context, id valueobjects.UserID, at time.Time) error
}

// FollowRepository persists the bidirectional follow relation. Every
// implementation must write both sides of an edge as one atomic unit; a
// failure partway must leave neither side applied.
type FollowRepository interface {
	// CreateEdge persists a follow edge on both sides atomically.
	// Returns a Conflict error when the edge already exists.
	CreateEdge(ctx context.Context, edge entities.FollowEdge) error

	// DeleteEdge removes a follow edge from both sides atomically.
	// Returns a Conflict error when the edge does not exist.
	DeleteEdge(ctx context.Context, follower, followee valueobjects.UserID) error

	// EdgeExists reports whether follower currently follows followee
	EdgeExists(ctx context.Context, follower, followee valueobjects.UserID) (bool, error)

	// FollowersOf lists the IDs of users following the given user
	FollowersOf(ctx context.Context, user valueobjects.UserID) ([]valueobjects.UserID, error)

	// FollowingOf lists the IDs of users the given user follows
	FollowingOf(ctx context.Context, user valueobjects.UserID) ([]valueobjects.UserID, error)
}

// PostRepository defines the interface for post persistence
type PostRepository interface {
	// Save persists a post (create or update)
	Save(ctx context.Context, post *entities.Post) error

	// GetByID retrieves a post by its ID
	GetByID(ctx context.Context, id valueobjects.PostID) (*entities.Post, error)

	// GetByAuthors retrieves all posts authored by any of the given users
	GetByAuthors(ctx context.Context, authors []valueobjects.UserID) ([]*entities.Post, error)

	// GetPublic retrieves all public posts
	GetPublic(ctx context.Context) ([]*entities.Post, error)

	// Update applies mutate to the stored post and persists the result.
	// Implementations serialize Updates on the same post; a mutate error
	// aborts with no state change. Returns NotFound when the post is
	// missing.
	Update(ctx context.Context, id valueobjects.PostID, mutate func(*entities.Post) error) error

	// Delete removes a post
	Delete(ctx context.Context, id valueobjects.PostID) error
}
