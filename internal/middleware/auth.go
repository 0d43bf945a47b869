package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	bearerPrefix = "Bearer "
	userIDKey    = "auth.user_id"
)

// TokenValidator resolves a bearer token to the caller's user id.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// caller id for downstream handlers. Missing, malformed and invalid tokens get
// the same 401.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c)
			return
		}

		userID, err := tokens.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated caller id set by AuthMiddleware.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(userIDKey)
	return id, id != ""
}

func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": "Not authorized",
	})
}
