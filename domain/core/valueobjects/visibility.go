package valueobjects

import "fmt"

// Visibility is the per-post access policy
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityFollowers Visibility = "followers"
	VisibilityPrivate   Visibility = "private"
)

// ParseVisibility converts a string into a Visibility. Empty input
// defaults to public.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case VisibilityPublic, VisibilityFollowers, VisibilityPrivate:
		return Visibility(s), nil
	case "":
		return VisibilityPublic, nil
	default:
		return "", fmt.Errorf("invalid visibility %q", s)
	}
}

// String returns the string representation of the Visibility
func (v Visibility) String() string {
	return string(v)
}

// IsValid reports whether the value is one of the known policies
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityFollowers, VisibilityPrivate:
		return true
	}
	return false
}
