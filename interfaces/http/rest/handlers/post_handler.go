package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ripple-backend/application/commands"
	"ripple-backend/application/commands/bus"
	"ripple-backend/application/queries"
	querybus "ripple-backend/application/queries/bus"
	"ripple-backend/pkg/auth"
	"ripple-backend/pkg/common"
	pkgerrors "ripple-backend/pkg/errors"
	"ripple-backend/pkg/utils"
)

const maxBodyBytes = 64 * 1024

// PostHandler serves the post endpoints
type PostHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

func NewPostHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errors,
		logger:     logger,
	}
}

// CreatePostRequest is the body of POST /posts
type CreatePostRequest struct {
	Content    string `json:"content"`
	Visibility string `json:"visibility,omitempty"`
}

// CreatePostResponse acknowledges a created post
type CreatePostResponse struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

// CreatePost handles POST /posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req CreatePostRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body"))
		return
	}

	cmd := commands.CreatePostCommand{
		PostID:     uuid.New().String(),
		AuthorID:   userCtx.UserID,
		Content:    req.Content,
		Visibility: req.Visibility,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, CreatePostResponse{
		ID:        cmd.PostID,
		Message:   "post created",
		CreatedAt: utils.NowRFC3339(),
	})
}

// GetPost handles GET /posts/{postID}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	postID := chi.URLParam(r, "postID")

	result, err := h.queryBus.Ask(r.Context(), queries.GetPostQuery{
		PostID:      postID,
		RequesterID: userCtx.UserID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// ListPublicPosts handles GET /posts
func (h *PostHandler) ListPublicPosts(w http.ResponseWriter, r *http.Request) {
	params := common.ExtractPaginationParams(r)

	result, err := h.queryBus.Ask(r.Context(), queries.ListPublicPostsQuery{
		Page:  params.Page,
		Limit: params.Limit,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// UpdatePostRequest is the body of PUT /posts/{postID}. Both fields are
// optional; an empty body is rejected.
type UpdatePostRequest struct {
	Content    string `json:"content,omitempty"`
	Visibility string `json:"visibility,omitempty"`
}

// UpdatePost handles PUT /posts/{postID}
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	postID := chi.URLParam(r, "postID")

	var req UpdatePostRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body"))
		return
	}

	cmd := commands.UpdatePostCommand{
		PostID:     postID,
		EditorID:   userCtx.UserID,
		Content:    req.Content,
		Visibility: req.Visibility,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "post updated"})
}

// LikePost handles POST /posts/{postID}/like
func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	h.sendLikeCommand(w, r, true)
}

// UnlikePost handles DELETE /posts/{postID}/like
func (h *PostHandler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	h.sendLikeCommand(w, r, false)
}

func (h *PostHandler) sendLikeCommand(w http.ResponseWriter, r *http.Request, like bool) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	postID := chi.URLParam(r, "postID")

	var cmd bus.Command
	if like {
		cmd = commands.LikePostCommand{PostID: postID, UserID: userCtx.UserID}
	} else {
		cmd = commands.UnlikePostCommand{PostID: postID, UserID: userCtx.UserID}
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

// CommentPostRequest is the body of POST /posts/{postID}/comments
type CommentPostRequest struct {
	Content string `json:"content"`
}

// CommentPost handles POST /posts/{postID}/comments
func (h *PostHandler) CommentPost(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	postID := chi.URLParam(r, "postID")

	var req CommentPostRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body"))
		return
	}

	cmd := commands.CommentPostCommand{
		PostID:   postID,
		AuthorID: userCtx.UserID,
		Content:  req.Content,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]string{"message": "comment added"})
}

// DeletePost handles DELETE /posts/{postID}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	postID := chi.URLParam(r, "postID")

	cmd := commands.DeletePostCommand{PostID: postID, ActorID: userCtx.UserID}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}
