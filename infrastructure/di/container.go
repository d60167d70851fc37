package di

import (
	"go.uber.org/zap"

	"ripple-backend/application/commands/bus"
	"ripple-backend/application/ports"
	querybus "ripple-backend/application/queries/bus"
	"ripple-backend/application/services"
	"ripple-backend/infrastructure/config"
	"ripple-backend/interfaces/http/rest"
	"ripple-backend/interfaces/ws"
	"ripple-backend/pkg/auth"
	pkgerrors "ripple-backend/pkg/errors"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	UserRepo     ports.UserRepository
	FollowRepo   ports.FollowRepository
	PostRepo     ports.PostRepository
	GraphService *services.SocialGraphService
	CommandBus   *bus.CommandBus
	QueryBus     *querybus.QueryBus
	JWTValidator *auth.JWTValidator
	IPLimiter    *auth.IPRateLimiter
	UserLimiter  *auth.UserRateLimiter
	ErrorHandler *pkgerrors.ErrorHandler
	Hub          *ws.Hub
	Rooms        *ws.Rooms
	WSRouter     *ws.Router
	Gateway      *ws.Gateway
	Router       *rest.Router
}
