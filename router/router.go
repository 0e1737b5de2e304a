// router/router.go

package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dev-kunalpandey/tudu/api/controller"
	"github.com/dev-kunalpandey/tudu/api/dao"
	"github.com/dev-kunalpandey/tudu/api/middleware"
	"github.com/dev-kunalpandey/tudu/api/util"
)

func SetupRouter(
	controllers *controller.Controllers,
	tokens *util.TokenService,
	users *dao.UserDAO,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	controllers.Auth.RegisterPublicRoutes(api)

	// Temp tokens from a password login are only good for the MFA
	// endpoints.
	mfa := api.Group("", middleware.Auth(tokens, users, true))
	controllers.Auth.RegisterMFARoutes(mfa)

	protected := api.Group("", middleware.Auth(tokens, users, false))
	controllers.Todo.RegisterRoutes(protected)
	controllers.Admin.RegisterRoutes(protected)

	return router
}
