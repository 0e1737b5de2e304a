// middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dev-kunalpandey/tudu/api/authz"
	"github.com/dev-kunalpandey/tudu/api/dao"
	logger "github.com/dev-kunalpandey/tudu/api/logging"
	"github.com/dev-kunalpandey/tudu/api/util"
)

// Auth resolves the bearer token to a stored user and places both the
// user and its authz actor on the request context.
//
// allowTemp admits the short-lived temp tokens issued mid-MFA; only
// the MFA endpoints set it.
func Auth(tokens *util.TokenService, users *dao.UserDAO, allowTemp bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokens.ParseClaims(tokenString)
		if err != nil {
			logger.Warn("Rejected invalid token", zap.Error(err), zap.String("ip", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
			c.Abort()
			return
		}

		if claims.Type != util.AccessToken && !(allowTemp && claims.Type == util.TempToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
			c.Abort()
			return
		}

		user, err := users.GetUserByEmail(c, claims.Subject)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, user)
		c.Set(util.ContextActorKey, authz.Actor{ID: user.ID, Role: user.Role})

		c.Next()
	}
}
