package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/service"
)

// UserIDKey is the gin context key under which the authenticated
// caller's id is stored.
const UserIDKey = "user_id"

// TokenValidator validates JWT tokens.
type TokenValidator interface {
	ValidateToken(token string) (*service.TokenClaims, error)
}

// AuthRequired rejects requests without a valid bearer token.
func AuthRequired(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, validator)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// AuthOptional stores the caller's id when a valid token is present
// and lets anonymous requests through untouched. Listing endpoints
// use this so viewer-dependent filters work for logged-in callers.
func AuthOptional(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, validator); ok {
			c.Set(UserIDKey, claims.UserID)
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context, validator TokenValidator) (*service.TokenClaims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}
	claims, err := validator.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

// CurrentUserID extracts the authenticated caller's id from the gin
// context; the second return is false for anonymous requests.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}
