package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"workboard/internal/auth"
)

// Gin context keys set for authenticated requests.
const (
	UserIDKey    = "userID"
	SuperuserKey = "superuser"
)

// JWTAuthMiddleware rejects requests without a valid bearer token.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		identity, err := auth.ParseIdentity(secret, parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrInvalidClaims) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
				return
			}
			log.WithField("path", c.FullPath()).Debug("rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(UserIDKey, identity.UserID)
		c.Set(SuperuserKey, identity.Superuser)
		c.Next()
	}
}
