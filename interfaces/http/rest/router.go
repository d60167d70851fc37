package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"ripple-backend/application/commands/bus"
	querybus "ripple-backend/application/queries/bus"
	"ripple-backend/interfaces/http/rest/handlers"
	"ripple-backend/interfaces/http/rest/middleware"
	"ripple-backend/interfaces/ws"
	"ripple-backend/pkg/auth"
	pkgerrors "ripple-backend/pkg/errors"
)

// Router creates and configures the HTTP router
type Router struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	gateway      *ws.Gateway
	jwtValidator *auth.JWTValidator
	ipLimiter    *auth.IPRateLimiter
	userLimiter  *auth.UserRateLimiter
	errors       *pkgerrors.ErrorHandler
	cors         cors.Options
	logger       *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	gateway *ws.Gateway,
	jwtValidator *auth.JWTValidator,
	ipLimiter *auth.IPRateLimiter,
	userLimiter *auth.UserRateLimiter,
	errors *pkgerrors.ErrorHandler,
	corsOptions cors.Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus:   commandBus,
		queryBus:     queryBus,
		gateway:      gateway,
		jwtValidator: jwtValidator,
		ipLimiter:    ipLimiter,
		userLimiter:  userLimiter,
		errors:       errors,
		cors:         corsOptions,
		logger:       logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(cors.Handler(rt.cors))

	// Health check
	router.Get("/health", rt.healthCheck)

	// Realtime gateway authenticates itself; the token rides the
	// upgrade request, not the Authorization header middleware.
	router.Get("/ws", rt.gateway.ServeHTTP)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.jwtValidator, rt.ipLimiter, rt.userLimiter, rt.logger))

		feedHandler := handlers.NewFeedHandler(rt.queryBus, rt.errors, rt.logger)
		r.Get("/feed", feedHandler.GetFeed)

		r.Route("/posts", func(r chi.Router) {
			postHandler := handlers.NewPostHandler(rt.commandBus, rt.queryBus, rt.errors, rt.logger)
			r.Get("/", postHandler.ListPublicPosts)
			r.Post("/", postHandler.CreatePost)
			r.Get("/{postID}", postHandler.GetPost)
			r.Put("/{postID}", postHandler.UpdatePost)
			r.Delete("/{postID}", postHandler.DeletePost)
			r.Post("/{postID}/like", postHandler.LikePost)
			r.Delete("/{postID}/like", postHandler.UnlikePost)
			r.Post("/{postID}/comments", postHandler.CommentPost)
		})

		r.Route("/users", func(r chi.Router) {
			userHandler := handlers.NewUserHandler(rt.commandBus, rt.queryBus, rt.errors, rt.logger)
			r.Get("/{userID}", userHandler.GetProfile)
			r.Post("/{userID}/follow", userHandler.Follow)
			r.Delete("/{userID}/follow", userHandler.Unfollow)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
