package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// PostID is a value object representing a unique post identifier
type PostID struct {
	value string
}

// NewPostID creates a new random PostID
func NewPostID() PostID {
	return PostID{value: uuid.New().String()}
}

// NewPostIDFromString creates a PostID from an existing string
func NewPostIDFromString(id string) (PostID, error) {
	if id == "" {
		return PostID{}, errors.New("post ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return PostID{}, errors.New("post ID must be a valid UUID")
	}
	return PostID{value: id}, nil
}

// String returns the string representation of the PostID
func (id PostID) String() string {
	return id.value
}

// Equals checks if two PostIDs are equal
func (id PostID) Equals(other PostID) bool {
	return id.value == other.value
}

// IsZero checks if the PostID is the zero value
func (id PostID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id PostID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *PostID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("PostID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
