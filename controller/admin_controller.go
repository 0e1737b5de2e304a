// controller/admin_controller.go
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	echo_errors "github.com/dev-kunalpandey/tudu/api/errors"
	"github.com/dev-kunalpandey/tudu/api/model"
	"github.com/dev-kunalpandey/tudu/api/service"
	"github.com/dev-kunalpandey/tudu/api/util"
	helper_util "github.com/dev-kunalpandey/tudu/api/util/helper"
)

type AdminController struct {
	userService *service.UserService
}

func NewAdminController(userService *service.UserService) *AdminController {
	return &AdminController{userService: userService}
}

// RegisterRoutes registers the API routes
func (admc *AdminController) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/admin/users")
	{
		users.POST("", admc.CreateUser)
		users.GET("", admc.ListUsers)
		users.GET("/:id", admc.GetUser)
		users.PATCH("/:id", admc.UpdateUser)
		users.DELETE("/:id", admc.DeleteUser)
		users.GET("/:id/logins", admc.RecentLogins)
	}
}

// CreateUser endpoint
func (admc *AdminController) CreateUser(c *gin.Context) {
	actor, err := util.ActorFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	var req model.AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user data", err)
		return
	}

	resp, err := admc.userService.CreateUser(c, actor, req)
	if err != nil {
		switch {
		case errors.Is(err, echo_errors.ErrUserConflict):
			util.RespondWithError(c, http.StatusConflict, "Email already registered", err)
		case errors.Is(err, echo_errors.ErrForbidden):
			util.RespondWithError(c, http.StatusForbidden, "Not enough permissions", err)
		case errors.Is(err, echo_errors.ErrInvalidUserData):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid user data", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create user", err)
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListUsers endpoint
func (admc *AdminController) ListUsers(c *gin.Context) {
	actor, err := util.ActorFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	skip, limit, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	users, err := admc.userService.ListUsers(c, actor, skip, limit)
	if err != nil {
		respondUserError(c, err, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser endpoint
func (admc *AdminController) GetUser(c *gin.Context) {
	actor, err := util.ActorFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	user, err := admc.userService.GetUser(c, actor, id)
	if err != nil {
		respondUserError(c, err, "Failed to retrieve user")
		return
	}

	c.JSON(http.StatusOK, model.NewUserRead(user))
}

// UpdateUser endpoint
func (admc *AdminController) UpdateUser(c *gin.Context) {
	actor, err := util.ActorFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user id", err)
		return
	}
	var req model.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user data", err)
		return
	}

	user, err := admc.userService.UpdateUser(c, actor, id, req)
	if err != nil {
		respondUserError(c, err, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, model.NewUserRead(user))
}

// DeleteUser endpoint
func (admc *AdminController) DeleteUser(c *gin.Context) {
	actor, err := util.ActorFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	if err := admc.userService.DeleteUser(c, actor, id); err != nil {
		respondUserError(c, err, "Failed to delete user")
		return
	}

	c.Status(http.StatusNoContent)
}

// RecentLogins endpoint
func (admc *AdminController) RecentLogins(c *gin.Context) {
	actor, err := util.ActorFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user id", err)
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid limit", err)
		return
	}

	records, err := admc.userService.RecentLogins(c, actor, id, limit)
	if err != nil {
		respondUserError(c, err, "Failed to retrieve login history")
		return
	}

	c.JSON(http.StatusOK, records)
}

func respondUserError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, echo_errors.ErrUserNotFound):
		util.RespondWithError(c, http.StatusNotFound, "User not found", err)
	case errors.Is(err, echo_errors.ErrForbidden):
		util.RespondWithError(c, http.StatusForbidden, "Not enough permissions", err)
	case errors.Is(err, echo_errors.ErrInvalidUserData):
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user data", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, fallback, err)
	}
}
