package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"ripple-backend/pkg/auth"
	"ripple-backend/pkg/common"
)

// Authenticate validates the bearer token, applies rate limiting, and
// attaches the resolved identity to the request context. The IP limit is
// checked before the credential, the per-user limit after, so anonymous
// floods never reach token parsing.
func Authenticate(validator *auth.JWTValidator, ipLimiter *auth.IPRateLimiter, userLimiter *auth.UserRateLimiter, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)
			allowed, err := ipLimiter.Allow(r.Context(), clientIP)
			if err != nil {
				logger.Warn("rate limiter error", zap.String("ip", clientIP), zap.Error(err))
			}
			if !allowed {
				common.RespondError(w, http.StatusTooManyRequests, common.StandardErrorCodes.TooManyRequests, "rate limit exceeded")
				return
			}

			token := auth.ExtractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "missing authentication token")
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "invalid authentication token")
				return
			}

			allowed, err = userLimiter.Allow(r.Context(), claims.UserID)
			if err != nil {
				logger.Warn("rate limiter error", zap.String("user_id", claims.UserID), zap.Error(err))
			}
			if !allowed {
				common.RespondError(w, http.StatusTooManyRequests, common.StandardErrorCodes.TooManyRequests, "rate limit exceeded")
				return
			}

			ctx := auth.WithUser(r.Context(), &auth.UserContext{UserID: claims.UserID})
			ctx = common.WithUserID(ctx, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// getClientIP resolves the originating address, preferring proxy headers
func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return host
}
