// Package middleware provides the gin middleware of the StudyReuse API.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/shared"
	"github.com/studyreuse/backend/internal/infrastructure/auth"
	"github.com/studyreuse/backend/internal/infrastructure/logger"
	"github.com/studyreuse/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Gin context keys set by the JWT middleware
const (
	ClaimsKey     = "jwt_claims"
	UserIDKey     = logger.GinUserIDKey
	RoleKey       = "role"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTConfig holds configuration for the JWT middleware
type JWTConfig struct {
	JWTService *auth.JWTService
	// Blacklist is optional; when set, revoked tokens are rejected
	Blacklist auth.TokenBlacklist
	Logger    *zap.Logger
}

// JWTAuth rejects requests without a valid access token and stores the
// authenticated actor in the context
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "UNAUTHORIZED", "Authentication required")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			log.Debug("JWT validation failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
			code, msg := authErrorCode(err)
			abortUnauthorized(c, code, msg)
			return
		}

		if cfg.Blacklist != nil && revoked(c, cfg.Blacklist, claims, log) {
			abortUnauthorized(c, "TOKEN_REVOKED", "Token has been revoked")
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalJWTAuth authenticates the request when a valid token is present and
// lets anonymous requests through
func OptionalJWTAuth(cfg JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err == nil && (cfg.Blacklist == nil || !revoked(c, cfg.Blacklist, claims, zap.NewNop())) {
			setClaims(c, claims)
		}
		c.Next()
	}
}

// RequireAdmin rejects authenticated non-admin users. It must run after JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			abortUnauthorized(c, "UNAUTHORIZED", "Authentication required")
			return
		}
		if !actor.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
				shared.CodeForbidden, "Administrator access required", c.GetString(RequestIDKey)))
			return
		}
		c.Next()
	}
}

// GetActor returns the authenticated actor of the request
func GetActor(c *gin.Context) (shared.Actor, bool) {
	id, err := uuid.Parse(c.GetString(UserIDKey))
	if err != nil {
		return shared.Actor{}, false
	}
	role := shared.Role(c.GetString(RoleKey))
	if !role.IsValid() {
		return shared.Actor{}, false
	}
	return shared.NewActor(id, role), true
}

// GetClaims returns the validated token claims, if any
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

// revoked fails open: a blacklist outage is logged, not turned into 401s
func revoked(c *gin.Context, blacklist auth.TokenBlacklist, claims *auth.Claims, log *zap.Logger) bool {
	ctx := c.Request.Context()
	if claims.ID != "" {
		hit, err := blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			log.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
		} else if hit {
			return true
		}
	}
	hit, err := blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
	if err != nil {
		log.Error("Failed to check user token revocation", zap.String("user_id", claims.UserID), zap.Error(err))
		return false
	}
	return hit
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ClaimsKey, claims)
	c.Set(UserIDKey, claims.UserID)
	c.Set(RoleKey, string(claims.Role))

	ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.UserID)
	c.Request = c.Request.WithContext(ctx)
}

func authErrorCode(err error) (string, string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "TOKEN_EXPIRED", "Token has expired"
	case errors.Is(err, auth.ErrInvalidTokenType):
		return "TOKEN_INVALID", "Invalid token type"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return "TOKEN_INVALID", "Token is not yet valid"
	default:
		return "TOKEN_INVALID", "Invalid token"
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message, c.GetString(RequestIDKey)))
}
