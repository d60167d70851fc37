package memory

import (
	"context"
	"sync"

	"ripple-backend/application/ports"
	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
	pkgerrors "ripple-backend/pkg/errors"
)

// PostRepository is an in-memory post store for development and tests.
// Stored posts never leave the repo; every read hands out a clone and
// Update mutates a clone under the write lock, so concurrent likes and
// comments on one post serialize instead of racing on shared maps.
type PostRepository struct {
	mu    sync.RWMutex
	posts map[string]*entities.Post
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[string]*entities.Post)}
}

var _ ports.PostRepository = (*PostRepository)(nil)

func (r *PostRepository) Save(ctx context.Context, post *entities.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID().String()] = post.Clone()
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id valueobjects.PostID) (*entities.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	post, ok := r.posts[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("post not found")
	}
	return post.Clone(), nil
}

func (r *PostRepository) GetByAuthors(ctx context.Context, authors []valueobjects.UserID) ([]*entities.Post, error) {
	wanted := make(map[string]struct{}, len(authors))
	for _, a := range authors {
		wanted[a.String()] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var posts []*entities.Post
	for _, post := range r.posts {
		if _, ok := wanted[post.Author().String()]; ok {
			posts = append(posts, post.Clone())
		}
	}
	return posts, nil
}

func (r *PostRepository) GetPublic(ctx context.Context) ([]*entities.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var posts []*entities.Post
	for _, post := range r.posts {
		if post.Visibility() == valueobjects.VisibilityPublic {
			posts = append(posts, post.Clone())
		}
	}
	return posts, nil
}

func (r *PostRepository) Update(ctx context.Context, id valueobjects.PostID, mutate func(*entities.Post) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[id.String()]
	if !ok {
		return pkgerrors.NewNotFoundError("post not found")
	}
	draft := stored.Clone()
	if err := mutate(draft); err != nil {
		return err
	}
	r.posts[id.String()] = draft
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id valueobjects.PostID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id.String()]; !ok {
		return pkgerrors.NewNotFoundError("post not found")
	}
	delete(r.posts, id.String())
	return nil
}
