package middleware

import (
	"context"
	"net/http"
	"strings"

	"shelterfund/internal/utils"
	"shelterfund/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextRequestID = "request_id"
)

// TokenValidator is implemented by services.AuthService.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
}

// AuthRequired validates the bearer token and sets the user id in context.
func AuthRequired(validator TokenValidator) gin.HandlerFunc {
	return authenticate(validator, false)
}

// WebSocketAuth is AuthRequired that also accepts the token as a "token"
// query parameter, since browsers cannot set headers on websocket upgrades.
func WebSocketAuth(validator TokenValidator) gin.HandlerFunc {
	return authenticate(validator, true)
}

// OptionalAuth sets the user id when a valid token is present and lets the
// request through either way.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token != "" {
			if claims, err := validator.ValidateToken(c.Request.Context(), token); err == nil {
				setUser(c, claims)
			}
		}
		c.Next()
	}
}

func authenticate(validator TokenValidator, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" && allowQuery {
			token = c.Query("token")
		}
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Bearer token required")
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, utils.CodeUnauthorized, utils.ErrInvalidToken)
			c.Abort()
			return
		}

		setUser(c, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func setUser(c *gin.Context, claims *utils.JWTClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUserEmail, claims.Email)
	c.Request = c.Request.WithContext(logger.ContextWithUserID(c.Request.Context(), claims.UserID))
}

// GetUserID returns the authenticated user id, if any.
func GetUserID(c *gin.Context) (primitive.ObjectID, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok && !id.IsZero()
}
