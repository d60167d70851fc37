package entities

import (
	"regexp"
	"strings"
	"time"

	"ripple-backend/domain/core/valueobjects"
	pkgerrors "ripple-backend/pkg/errors"
)

const (
	MaxPostLength    = 280
	MaxCommentLength = 280
)

var (
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	mentionPattern = regexp.MustCompile(`@(\w+)`)
)

// Comment is an entry in a post's ordered comment list
type Comment struct {
	ID        string              `json:"id"`
	Author    valueobjects.UserID `json:"author"`
	Content   string              `json:"content"`
	CreatedAt time.Time           `json:"createdAt"`
}

// Post is the main content entity. It is a rich domain model: likes are a
// unique-membership set, comments are append-only and ordered, and hashtags
// and mentions are derived from content on every content change.
type Post struct {
	id         valueobjects.PostID
	author     valueobjects.UserID
	content    string
	visibility valueobjects.Visibility
	likes      map[string]struct{}
	likeOrder  []valueobjects.UserID
	comments   []Comment
	hashtags   []string
	mentions   []string
	createdAt  time.Time
	updatedAt  time.Time
	version    uint64
}

// NewPost creates a post, validating content and deriving hashtags/mentions
func NewPost(author valueobjects.UserID, content string, visibility valueobjects.Visibility) (*Post, error) {
	return NewPostWithID(valueobjects.NewPostID(), author, content, visibility)
}

// NewPostWithID creates a post under a caller-assigned ID. The HTTP
// layer pre-generates IDs so it can answer a create without a read.
func NewPostWithID(id valueobjects.PostID, author valueobjects.UserID, content string, visibility valueobjects.Visibility) (*Post, error) {
	p := &Post{
		id:         id,
		author:     author,
		visibility: visibility,
		likes:      make(map[string]struct{}),
		createdAt:  time.Now(),
		version:    1,
	}
	p.updatedAt = p.createdAt

	if author.IsZero() {
		return nil, pkgerrors.NewValidationError("post author is required")
	}
	if !visibility.IsValid() {
		return nil, pkgerrors.NewValidationError("invalid post visibility")
	}
	if err := p.setContent(content); err != nil {
		return nil, err
	}
	return p, nil
}

// ReconstructPost rebuilds a post from persisted state without re-running
// creation-time validation. Repositories are the only intended caller.
func ReconstructPost(
	id valueobjects.PostID,
	author valueobjects.UserID,
	content string,
	visibility valueobjects.Visibility,
	likes []valueobjects.UserID,
	comments []Comment,
	createdAt, updatedAt time.Time,
	version uint64,
) *Post {
	if version == 0 {
		version = 1
	}
	p := &Post{
		id:         id,
		author:     author,
		content:    content,
		visibility: visibility,
		likes:      make(map[string]struct{}, len(likes)),
		comments:   comments,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		version:    version,
	}
	for _, u := range likes {
		if _, seen := p.likes[u.String()]; !seen {
			p.likes[u.String()] = struct{}{}
			p.likeOrder = append(p.likeOrder, u)
		}
	}
	p.hashtags = extractHashtags(content)
	p.mentions = extractMentions(content)
	return p
}

func (p *Post) setContent(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return pkgerrors.NewValidationError("post content is required")
	}
	if len(content) > MaxPostLength {
		return pkgerrors.NewValidationError("post cannot exceed 280 characters")
	}
	p.content = content
	p.hashtags = extractHashtags(content)
	p.mentions = extractMentions(content)
	return nil
}

// UpdateContent replaces the post content. Only the author may edit.
func (p *Post) UpdateContent(editor valueobjects.UserID, content string) error {
	if !editor.Equals(p.author) {
		return pkgerrors.NewForbiddenError("only the author can edit a post")
	}
	if err := p.setContent(content); err != nil {
		return err
	}
	p.updatedAt = time.Now()
	p.version++
	return nil
}

// ChangeVisibility updates the access policy. Only the author may change it.
func (p *Post) ChangeVisibility(editor valueobjects.UserID, v valueobjects.Visibility) error {
	if !editor.Equals(p.author) {
		return pkgerrors.NewForbiddenError("only the author can change post visibility")
	}
	if !v.IsValid() {
		return pkgerrors.NewValidationError("invalid post visibility")
	}
	p.visibility = v
	p.updatedAt = time.Now()
	p.version++
	return nil
}

// Like records a like by the given user. Liking twice is a conflict.
func (p *Post) Like(user valueobjects.UserID) error {
	if _, liked := p.likes[user.String()]; liked {
		return pkgerrors.NewConflictError("post already liked")
	}
	p.likes[user.String()] = struct{}{}
	p.likeOrder = append(p.likeOrder, user)
	p.version++
	return nil
}

// Unlike removes a like. Unliking a post that was never liked is a conflict.
func (p *Post) Unlike(user valueobjects.UserID) error {
	if _, liked := p.likes[user.String()]; !liked {
		return pkgerrors.NewConflictError("post not liked yet")
	}
	delete(p.likes, user.String())
	for i, u := range p.likeOrder {
		if u.Equals(user) {
			p.likeOrder = append(p.likeOrder[:i], p.likeOrder[i+1:]...)
			break
		}
	}
	p.version++
	return nil
}

// AddComment appends a comment to the ordered comment list
func (p *Post) AddComment(author valueobjects.UserID, commentID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, pkgerrors.NewValidationError("comment content is required")
	}
	if len(content) > MaxCommentLength {
		return nil, pkgerrors.NewValidationError("comment cannot exceed 280 characters")
	}
	comment := Comment{
		ID:        commentID,
		Author:    author,
		Content:   content,
		CreatedAt: time.Now(),
	}
	p.comments = append(p.comments, comment)
	p.updatedAt = comment.CreatedAt
	p.version++
	return &comment, nil
}

// CanBeViewedBy applies the visibility policy for a single post view.
// The followers policy needs only a one-way viewer->author edge.
func (p *Post) CanBeViewedBy(viewer valueobjects.UserID, viewerFollowsAuthor bool) bool {
	switch p.visibility {
	case valueobjects.VisibilityPublic:
		return true
	case valueobjects.VisibilityFollowers:
		return viewer.Equals(p.author) || viewerFollowsAuthor
	case valueobjects.VisibilityPrivate:
		return viewer.Equals(p.author)
	}
	return false
}

// IsLikedBy reports whether the user currently likes the post
func (p *Post) IsLikedBy(user valueobjects.UserID) bool {
	_, liked := p.likes[user.String()]
	return liked
}

// Getters

func (p *Post) ID() valueobjects.PostID              { return p.id }
func (p *Post) Author() valueobjects.UserID          { return p.author }
func (p *Post) Content() string                      { return p.content }
func (p *Post) Visibility() valueobjects.Visibility  { return p.visibility }
func (p *Post) CreatedAt() time.Time                 { return p.createdAt }
func (p *Post) UpdatedAt() time.Time                 { return p.updatedAt }
func (p *Post) Hashtags() []string                   { return append([]string(nil), p.hashtags...) }
func (p *Post) Mentions() []string                   { return append([]string(nil), p.mentions...) }
func (p *Post) LikesCount() int                      { return len(p.likes) }
func (p *Post) CommentsCount() int                   { return len(p.comments) }
func (p *Post) Version() uint64                      { return p.version }

// Likes returns the likers in like order
func (p *Post) Likes() []valueobjects.UserID {
	return append([]valueobjects.UserID(nil), p.likeOrder...)
}

// Comments returns the ordered comment list
func (p *Post) Comments() []Comment {
	return append([]Comment(nil), p.comments...)
}

// Clone returns an independent deep copy. Repositories hand out clones so
// a caller's mutations never alias stored state.
func (p *Post) Clone() *Post {
	c := &Post{
		id:         p.id,
		author:     p.author,
		content:    p.content,
		visibility: p.visibility,
		likes:      make(map[string]struct{}, len(p.likes)),
		likeOrder:  append([]valueobjects.UserID(nil), p.likeOrder...),
		comments:   append([]Comment(nil), p.comments...),
		hashtags:   append([]string(nil), p.hashtags...),
		mentions:   append([]string(nil), p.mentions...),
		createdAt:  p.createdAt,
		updatedAt:  p.updatedAt,
		version:    p.version,
	}
	for k := range p.likes {
		c.likes[k] = struct{}{}
	}
	return c
}

// extractHashtags pulls lowercased, deduplicated hashtags out of content
func extractHashtags(content string) []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, m := range hashtagPattern.FindAllStringSubmatch(content, -1) {
		tag := strings.ToLower(m[1])
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// extractMentions pulls deduplicated @mentions out of content
func extractMentions(content string) []string {
	var mentions []string
	seen := make(map[string]struct{})
	for _, m := range mentionPattern.FindAllStringSubmatch(content, -1) {
		name := m[1]
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		mentions = append(mentions, name)
	}
	return mentions
}
