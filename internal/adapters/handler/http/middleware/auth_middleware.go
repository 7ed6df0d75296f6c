package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	authorizationHeader = "Authorization"
	authorizationType   = "Bearer"
	ContextSubjectKey   = "subject"
)

// TokenValidator returns the subject of a valid token.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(authorizationHeader)
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 || fields[0] != authorizationType {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		subject, err := tokens.ValidateToken(fields[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextSubjectKey, subject)

		c.Next()
	}
}

func GetSubject(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextSubjectKey)
	if !exists {
		return "", false
	}
	subject, ok := v.(string)
	return subject, ok
}
