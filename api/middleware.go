package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/securespot/internal/domain"
	"github.com/zvrva/securespot/internal/service/auth"
)

const currentUserKey = "currentUser"

// RequireAuth validates the bearer token and stores the resolved user on the
// gin context.
func RequireAuth(service auth.AuthUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		user, err := service.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return ""
	}
	return fields[1]
}

func currentUser(c *gin.Context) *domain.User {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, _ := value.(*domain.User)
	return user
}
