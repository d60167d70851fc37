package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"ripple-backend/application/ports"
	"ripple-backend/domain/core/valueobjects"
	"ripple-backend/pkg/auth"
	"ripple-backend/pkg/common"
)

// Options are the per-connection tuning knobs
type Options struct {
	WriteTimeout   time.Duration
	PongTimeout    time.Duration
	SendBufferSize int
	MaxMessageSize int64
	// AllowedOrigins restricts upgrade requests; "*" allows any origin.
	AllowedOrigins []string
}

// Gateway authenticates upgrade requests and runs the connection
// lifecycle. A request missing a credential or carrying a bad one is
// rejected with 401 before the upgrade happens.
type Gateway struct {
	hub      *Hub
	rooms    *Rooms
	router   *Router
	jwt      *auth.JWTValidator
	users    ports.UserRepository
	opts     Options
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewGateway(
	hub *Hub,
	rooms *Rooms,
	router *Router,
	jwt *auth.JWTValidator,
	users ports.UserRepository,
	opts Options,
	logger *zap.Logger,
) *Gateway {
	g := &Gateway{
		hub:    hub,
		rooms:  rooms,
		router: router,
		jwt:    jwt,
		users:  users,
		opts:   opts,
		logger: logger.Named("gateway"),
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     g.checkOrigin,
	}
	return g
}

func (g *Gateway) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range g.opts.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// ServeHTTP handles GET /ws
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = auth.ExtractBearerToken(r.Header.Get("Authorization"))
	}
	if token == "" {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "missing authentication token")
		return
	}

	claims, err := g.jwt.Validate(token)
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "invalid authentication token")
		return
	}
	userID, err := valueobjects.NewUserID(claims.UserID)
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "invalid authentication token")
		return
	}

	// A token whose subject no longer resolves to a user is as good as
	// an invalid token.
	user, err := g.users.GetByID(r.Context(), userID)
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "invalid authentication token")
		return
	}

	wsConn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake failure response
		g.logger.Debug("upgrade failed", zap.String("user_id", userID.String()), zap.Error(err))
		return
	}

	conn := newConnection(wsConn, user.Summary(), g.opts, g.logger)
	g.hub.Register(conn)
	if err := g.users.TouchLastActive(r.Context(), userID, time.Now()); err != nil {
		g.logger.Warn("failed to touch last active", zap.String("user_id", userID.String()), zap.Error(err))
	}

	defer func() {
		g.rooms.LeaveAll(conn)
		g.hub.Unregister(conn)
		conn.close()
	}()

	go conn.writePump()
	conn.readPump(g.router.HandleMessage)
}
