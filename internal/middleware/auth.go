package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sakhi-app/core/internal/pkg/jwt"
	"github.com/sakhi-app/core/internal/pkg/response"
)

const ContextKeyUserID = "user_id"

// Auth rejects requests without a valid bearer token.
func Auth(signer *jwt.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ValidateToken(signer, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Next()
	}
}

// OptionalAuth sets the user ID if a valid token is present, but does not block the request.
func OptionalAuth(signer *jwt.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := ValidateToken(signer, extractToken(c)); err == nil {
			c.Set(ContextKeyUserID, claims.UserID)
		}
		c.Next()
	}
}

// ValidateToken parses a raw Authorization value.
func ValidateToken(signer *jwt.Signer, rawToken string) (*jwt.Claims, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, errors.New("token is required")
	}
	return signer.Parse(token)
}

// CurrentUserID extracts the authenticated user ID from context, 0 if anonymous.
func CurrentUserID(c *gin.Context) uint {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(uint)
	return id
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != 0
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
