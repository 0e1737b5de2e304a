// util/http_util.go
package util

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dev-kunalpandey/tudu/api/authz"
	echo_errors "github.com/dev-kunalpandey/tudu/api/errors"
	logger "github.com/dev-kunalpandey/tudu/api/logging"
	"github.com/dev-kunalpandey/tudu/api/model"
)

const (
	ContextActorKey = "actor"
	ContextUserKey  = "currentUser"
)

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"error": message})
}

// ActorFromContext returns the authenticated actor the auth middleware
// stored on the request.
func ActorFromContext(c *gin.Context) (authz.Actor, error) {
	value, exists := c.Get(ContextActorKey)
	if !exists {
		return authz.Actor{}, echo_errors.ErrUnauthorized
	}
	actor, ok := value.(authz.Actor)
	if !ok {
		return authz.Actor{}, echo_errors.ErrUnauthorized
	}
	return actor, nil
}

// CurrentUserFromContext returns the full user row resolved by the
// auth middleware.
func CurrentUserFromContext(c *gin.Context) (*model.User, error) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, echo_errors.ErrUnauthorized
	}
	user, ok := value.(*model.User)
	if !ok {
		return nil, echo_errors.ErrUnauthorized
	}
	return user, nil
}
