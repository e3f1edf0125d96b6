package middleware

import (
	"errors"
	"net/http"
	"strings"

	"PumpPal/models"
	"PumpPal/pkg/services"
	tokenstore "PumpPal/pkg/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextUserKey   = "current_user"
	ContextCallerKey = "current_caller"
)

// AuthMiddleware resolves the bearer token to a user and stores both the
// user and its services.Caller on the context. It performs no role checks.
func AuthMiddleware(auth *services.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}
		parts := strings.Fields(header)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), parts[1])
		switch {
		case errors.Is(err, tokenstore.ErrRevoked):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token has been revoked."})
			return
		case errors.Is(err, tokenstore.ErrInvalidToken):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		case err != nil:
			log.Error("authenticate request", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextCallerKey, services.CallerOf(user))
		c.Next()
	}
}

// CurrentCaller returns the caller set by AuthMiddleware.
func CurrentCaller(c *gin.Context) services.Caller {
	v, _ := c.Get(ContextCallerKey)
	caller, _ := v.(services.Caller)
	return caller
}

// CurrentUser returns the user loaded by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, _ := c.Get(ContextUserKey)
	u, _ := v.(*models.User)
	return u
}

// RequireRegular rejects non-regular callers before the handler parses the
// path or body. Mount after AuthMiddleware.
func RequireRegular(action services.Action) gin.HandlerFunc {
	return requireRole(services.RequireRegular, action)
}

// RequireAdministrator is RequireRegular for administrator-only routes.
func RequireAdministrator(action services.Action) gin.HandlerFunc {
	return requireRole(services.RequireAdministrator, action)
}

func requireRole(check func(services.Caller, services.Action) error, action services.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ferr *services.ForbiddenError
		if err := check(CurrentCaller(c), action); errors.As(err, &ferr) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": ferr.Message})
			return
		}
		c.Next()
	}
}
