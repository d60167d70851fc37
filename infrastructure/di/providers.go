package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"ripple-backend/application/commands"
	"ripple-backend/application/commands/bus"
	commandhandlers "ripple-backend/application/commands/handlers"
	"ripple-backend/application/ports"
	"ripple-backend/application/queries"
	querybus "ripple-backend/application/queries/bus"
	queryhandlers "ripple-backend/application/queries/handlers"
	"ripple-backend/application/services"
	"ripple-backend/infrastructure/config"
	"ripple-backend/infrastructure/persistence/dynamodb"
	"ripple-backend/infrastructure/persistence/memory"
	"ripple-backend/interfaces/http/rest"
	"ripple-backend/interfaces/ws"
	"ripple-backend/pkg/auth"
	pkgerrors "ripple-backend/pkg/errors"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideUserRepository selects the user repository for the configured driver
func ProvideUserRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	if cfg.StorageDriver == "memory" {
		return memory.NewUserRepository()
	}
	return dynamodb.NewUserRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideFollowRepository selects the follow repository for the configured driver
func ProvideFollowRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.FollowRepository {
	if cfg.StorageDriver == "memory" {
		return memory.NewFollowRepository()
	}
	return dynamodb.NewFollowRepository(client, cfg.DynamoDBTable, logger)
}

// ProvidePostRepository selects the post repository for the configured driver
func ProvidePostRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.PostRepository {
	if cfg.StorageDriver == "memory" {
		return memory.NewPostRepository()
	}
	return dynamodb.NewPostRepository(client, cfg.DynamoDBTable, cfg.PostIndexName, logger)
}

// ProvideSocialGraphService creates the social graph service
func ProvideSocialGraphService(
	follows ports.FollowRepository,
	users ports.UserRepository,
	logger *zap.Logger,
) *services.SocialGraphService {
	return services.NewSocialGraphService(follows, users, logger)
}

// ProvideJWTValidator creates the token validator. Outside production a
// missing secret falls back to a fixed development key.
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" && !cfg.IsProduction() {
		secret = "development-secret-change-in-production"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideIPRateLimiter creates the per-IP limiter used by the REST middleware
func ProvideIPRateLimiter(cfg *config.Config) *auth.IPRateLimiter {
	return auth.NewIPRateLimiter(cfg.IPRequestsPerMinute)
}

// ProvideUserRateLimiter creates the per-user limiter applied after
// identity resolution
func ProvideUserRateLimiter(cfg *config.Config) *auth.UserRateLimiter {
	return auth.NewUserRateLimiter(cfg.UserRequestsPerMinute)
}

// ProvideErrorHandler creates the HTTP error handler
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideHub creates the presence registry
func ProvideHub(logger *zap.Logger) *ws.Hub {
	return ws.NewHub(logger)
}

// ProvideRooms creates the room manager
func ProvideRooms(logger *zap.Logger) *ws.Rooms {
	return ws.NewRooms(logger)
}

// ProvideWSRouter creates the realtime event router
func ProvideWSRouter(hub *ws.Hub, rooms *ws.Rooms, logger *zap.Logger) *ws.Router {
	return ws.NewRouter(hub, rooms, logger)
}

// ProvideGateway creates the websocket gateway
func ProvideGateway(
	hub *ws.Hub,
	rooms *ws.Rooms,
	wsRouter *ws.Router,
	jwtValidator *auth.JWTValidator,
	users ports.UserRepository,
	cfg *config.Config,
	logger *zap.Logger,
) *ws.Gateway {
	return ws.NewGateway(hub, rooms, wsRouter, jwtValidator, users, ws.Options{
		WriteTimeout:   cfg.WSWriteTimeout,
		PongTimeout:    cfg.WSPongTimeout,
		SendBufferSize: cfg.WSSendBufferSize,
		MaxMessageSize: cfg.WSMaxMessageSize,
		AllowedOrigins: cfg.AllowedOrigins,
	}, logger)
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	graph *services.SocialGraphService,
	userRepo ports.UserRepository,
	postRepo ports.PostRepository,
	logger *zap.Logger,
) *bus.CommandBus {
	commandBus := bus.NewCommandBus()

	followHandler := commandhandlers.NewFollowUserHandler(graph, logger)
	commandBus.Register(commands.FollowUserCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			followCmd, ok := cmd.(commands.FollowUserCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return followHandler.Handle(ctx, followCmd)
		},
	})

	unfollowHandler := commandhandlers.NewUnfollowUserHandler(graph, logger)
	commandBus.Register(commands.UnfollowUserCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			unfollowCmd, ok := cmd.(commands.UnfollowUserCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return unfollowHandler.Handle(ctx, unfollowCmd)
		},
	})

	createPostHandler := commandhandlers.NewCreatePostHandler(postRepo, userRepo, logger)
	commandBus.Register(commands.CreatePostCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			createCmd, ok := cmd.(commands.CreatePostCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			_, err := createPostHandler.Handle(ctx, createCmd)
			return err
		},
	})

	likeHandler := commandhandlers.NewLikePostHandler(postRepo, logger)
	commandBus.Register(commands.LikePostCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			likeCmd, ok := cmd.(commands.LikePostCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return likeHandler.HandleLike(ctx, likeCmd)
		},
	})
	commandBus.Register(commands.UnlikePostCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			unlikeCmd, ok := cmd.(commands.UnlikePostCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return likeHandler.HandleUnlike(ctx, unlikeCmd)
		},
	})

	commentHandler := commandhandlers.NewCommentPostHandler(postRepo, logger)
	commandBus.Register(commands.CommentPostCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			commentCmd, ok := cmd.(commands.CommentPostCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			_, err := commentHandler.Handle(ctx, commentCmd)
			return err
		},
	})

	updateHandler := commandhandlers.NewUpdatePostHandler(postRepo, logger)
	commandBus.Register(commands.UpdatePostCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			updateCmd, ok := cmd.(commands.UpdatePostCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return updateHandler.Handle(ctx, updateCmd)
		},
	})

	deleteHandler := commandhandlers.NewDeletePostHandler(postRepo, logger)
	commandBus.Register(commands.DeletePostCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			deleteCmd, ok := cmd.(commands.DeletePostCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return deleteHandler.Handle(ctx, deleteCmd)
		},
	})

	return commandBus
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	graph *services.SocialGraphService,
	userRepo ports.UserRepository,
	postRepo ports.PostRepository,
	logger *zap.Logger,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()

	feedHandler := queryhandlers.NewGetFeedHandler(graph, postRepo, userRepo, logger)
	queryBus.Register(queries.GetFeedQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			feedQuery, ok := query.(queries.GetFeedQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return feedHandler.Handle(ctx, feedQuery)
		},
	})

	postHandler := queryhandlers.NewGetPostHandler(graph, postRepo, userRepo, logger)
	queryBus.Register(queries.GetPostQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			postQuery, ok := query.(queries.GetPostQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return postHandler.Handle(ctx, postQuery)
		},
	})
	queryBus.Register(queries.ListPublicPostsQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			listQuery, ok := query.(queries.ListPublicPostsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return postHandler.HandleList(ctx, listQuery)
		},
	})

	profileHandler := queryhandlers.NewGetProfileHandler(graph, userRepo, logger)
	queryBus.Register(queries.GetProfileQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			profileQuery, ok := query.(queries.GetProfileQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return profileHandler.Handle(ctx, profileQuery)
		},
	})

	return queryBus
}

// ProvideRouter creates the configured HTTP router
func ProvideRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	gateway *ws.Gateway,
	jwtValidator *auth.JWTValidator,
	ipLimiter *auth.IPRateLimiter,
	userLimiter *auth.UserRateLimiter,
	errorHandler *pkgerrors.ErrorHandler,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	corsOptions := cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	return rest.NewRouter(commandBus, queryBus, gateway, jwtValidator, ipLimiter, userLimiter, errorHandler, corsOptions, logger)
}
