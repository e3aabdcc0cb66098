package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"howtoplatform/internal/domain"
)

const callerKey = "caller"

// Authenticator resolves a bearer access token to a caller.
type Authenticator interface {
	Authenticate(token string) (domain.Caller, error)
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		token, ok := bearer(authHeader)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		caller, err := auth.Authenticate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// OptionalAuth resolves the caller when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearer(c.GetHeader("Authorization")); ok {
			if caller, err := auth.Authenticate(token); err == nil {
				c.Set(callerKey, caller)
			}
		}
		c.Next()
	}
}

// Caller returns the authenticated caller, or the zero caller for anonymous requests.
func Caller(c *gin.Context) domain.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(domain.Caller); ok {
			return caller
		}
	}
	return domain.Caller{}
}

func bearer(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
