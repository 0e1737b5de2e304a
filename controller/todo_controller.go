// controller/todo_controller.go
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dev-kunalpandey/tudu/api/authz"
	echo_errors "github.com/dev-kunalpandey/tudu/api/errors"
	"github.com/dev-kunalpandey/tudu/api/model"
	"github.com/dev-kunalpandey/tudu/api/service"
	"github.com/dev-kunalpandey/tudu/api/util"
	helper_util "github.com/dev-kunalpandey/tudu/api/util/helper"
)

type TodoController struct {
	todoService *service.TodoService
}

func NewTodoController(todoService *service.TodoService) *TodoController {
	return &TodoController{todoService: todoService}
}

// RegisterRoutes registers the API routes
func (tc *TodoController) RegisterRoutes(r *gin.RouterGroup) {
	todos := r.Group("/todos")
	{
		todos.GET("", tc.ListTodos)
		todos.POST("", tc.CreateTodo)
		todos.GET("/:id", tc.GetTodo)
		todos.PUT("/:id", tc.UpdateTodo)
		todos.DELETE("/:id", tc.DeleteTodo)
	}
}

// ListTodos endpoint
func (tc *TodoController) ListTodos(c *gin.Context) {
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

	page, err := tc.todoService.ListTodos(c, actor, skip, limit)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list todos", err)
		return
	}

	c.Header("X-Total-Count", strconv.FormatInt(page.Total, 10))
	c.JSON(http.StatusOK, page)
}

// CreateTodo endpoint
func (tc *TodoController) CreateTodo(c *gin.Context) {
	actor, err := util.ActorFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	var req model.TodoCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid todo data", err)
		return
	}

	todo, err := tc.todoService.CreateTodo(c, actor, req)
	if err != nil {
		respondTodoError(c, err, "Failed to create todo")
		return
	}

	c.Header("ETag", strconv.Itoa(todo.Version))
	c.JSON(http.StatusCreated, model.NewTodoRead(todo))
}

// GetTodo endpoint
func (tc *TodoController) GetTodo(c *gin.Context) {
	actor, err := util.ActorFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid todo id", err)
		return
	}

	todo, err := tc.todoService.GetTodo(c, actor, id)
	if err != nil {
		respondTodoError(c, err, "Failed to retrieve todo")
		return
	}

	c.Header("ETag", strconv.Itoa(todo.Version))
	c.JSON(http.StatusOK, model.NewTodoRead(todo))
}

// UpdateTodo endpoint. The If-Match header opts the request into the
// optimistic concurrency check; a stale value yields 412.
func (tc *TodoController) UpdateTodo(c *gin.Context) {
	actor, err := util.ActorFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid todo id", err)
		return
	}
	ifMatch, err := helper_util.GetIfMatchHeader(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid If-Match header", err)
		return
	}
	var req model.TodoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid todo data", err)
		return
	}

	todo, err := tc.todoService.UpdateTodo(c, actor, id, req, ifMatch)
	if err != nil {
		respondTodoError(c, err, "Failed to update todo")
		return
	}

	c.Header("ETag", strconv.Itoa(todo.Version))
	c.JSON(http.StatusOK, model.NewTodoRead(todo))
}

// DeleteTodo endpoint
func (tc *TodoController) DeleteTodo(c *gin.Context) {
	actor, err := util.ActorFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid todo id", err)
		return
	}
	ifMatch, err := helper_util.GetIfMatchHeader(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid If-Match header", err)
		return
	}

	if err := tc.todoService.DeleteTodo(c, actor, id, ifMatch); err != nil {
		respondTodoError(c, err, "Failed to delete todo")
		return
	}

	c.Status(http.StatusNoContent)
}

func respondTodoError(c *gin.Context, err error, fallback string) {
	var conflict *authz.VersionConflictError
	switch {
	case errors.As(err, &conflict):
		util.RespondWithError(c, http.StatusPreconditionFailed, conflict.Error(), err)
	case errors.Is(err, echo_errors.ErrTodoNotFound):
		util.RespondWithError(c, http.StatusNotFound, "Todo not found", err)
	case errors.Is(err, echo_errors.ErrForbidden):
		util.RespondWithError(c, http.StatusForbidden, "Not enough permissions", err)
	case errors.Is(err, echo_errors.ErrInvalidTodoData):
		util.RespondWithError(c, http.StatusBadRequest, "Invalid todo data", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, fallback, err)
	}
}
