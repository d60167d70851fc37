package entities

import (
	"time"

	"ripple-backend/domain/core/valueobjects"
)

// User holds the profile fields the realtime and feed paths care about.
// Credential issuance and profile CRUD live in an external service; this
// entity is read-mostly on our side.
type User struct {
	ID           valueobjects.UserID `json:"id"`
	Username     string              `json:"username"`
	Name         string              `json:"name"`
	Avatar       string              `json:"avatar,omitempty"`
	Bio          string              `json:"bio,omitempty"`
	LastActiveAt time.Time           `json:"lastActiveAt"`
}

// UserSummary is the compact shape embedded in presence snapshots,
// notifications, and profile follower/following lists.
type UserSummary struct {
	ID       valueobjects.UserID `json:"id"`
	Username string              `json:"username"`
	Name     string              `json:"name"`
	Avatar   string              `json:"avatar,omitempty"`
}

// Summary returns the compact public shape of the user
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Avatar:   u.Avatar,
	}
}

// TouchLastActive updates the last-active marker
func (u *User) TouchLastActive() {
	u.LastActiveAt = time.Now()
}
