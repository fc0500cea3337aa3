package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/artgaze/profile-service/pkg/jwt"
)

const (
	UserIDKey     = "user_id"
	HandleKey     = "handle"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AuthMiddleware validates JWT tokens locally against the shared secret.
type AuthMiddleware struct {
	tokens *jwt.Manager
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(tokens *jwt.Manager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth returns a Gin middleware that rejects requests without a
// valid bearer token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.parseBearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing or invalid authorization",
			})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(HandleKey, claims.Handle)
		c.Next()
	}
}

// OptionalViewer returns a Gin middleware that records the caller identity
// when a valid bearer token is present and lets anonymous requests through.
// A malformed token is still rejected rather than silently misattributed.
func (m *AuthMiddleware) OptionalViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(AuthHeaderKey) == "" {
			c.Next()
			return
		}

		claims, ok := m.parseBearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid authorization",
			})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(HandleKey, claims.Handle)
		c.Next()
	}
}

func (m *AuthMiddleware) parseBearer(c *gin.Context) (*jwt.Claims, bool) {
	authHeader := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return nil, false
	}

	claims, err := m.tokens.Validate(strings.TrimPrefix(authHeader, BearerPrefix))
	if err != nil {
		return nil, false
	}
	return claims, true
}

// GetUserID extracts the authenticated account id from the Gin context.
// Returns 0 when the request is anonymous.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(UserIDKey); exists {
		if v, ok := id.(uint); ok {
			return v
		}
	}
	return 0
}

// GetHandle extracts the authenticated handle from the Gin context.
func GetHandle(c *gin.Context) string {
	if handle, exists := c.Get(HandleKey); exists {
		if v, ok := handle.(string); ok {
			return v
		}
	}
	return ""
}
