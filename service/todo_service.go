// service/todo_service.go
package service

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dev-kunalpandey/tudu/api/authz"
	"github.com/dev-kunalpandey/tudu/api/cache"
	"github.com/dev-kunalpandey/tudu/api/dao"
	echo_errors "github.com/dev-kunalpandey/tudu/api/errors"
	logger "github.com/dev-kunalpandey/tudu/api/logging"
	"github.com/dev-kunalpandey/tudu/api/model"
	"github.com/dev-kunalpandey/tudu/api/util"
)

// TodoService owns the todo lifecycle. Every operation that touches a
// todo goes through the authorization checker first; the DAO is only
// reached with an authorized subject in hand.
type TodoService struct {
	todoDAO        *dao.TodoDAO
	checker        *authz.Checker
	cache          *cache.Cache
	validationUtil *util.ValidationUtil
	eventBus       *util.EventBus
}

func NewTodoService(todoDAO *dao.TodoDAO, checker *authz.Checker, c *cache.Cache, validationUtil *util.ValidationUtil, eventBus *util.EventBus) *TodoService {
	return &TodoService{
		todoDAO:        todoDAO,
		checker:        checker,
		cache:          c,
		validationUtil: validationUtil,
		eventBus:       eventBus,
	}
}

// ListTodos returns one page of the actor's top-level todos; admins see
// everyone's. Pages are cached per actor and page window.
func (s *TodoService) ListTodos(ctx context.Context, actor authz.Actor, skip, limit int) (*model.TodoPage, error) {
	key := cache.TodoListKey(actor.ID, skip, limit)
	if cached, ok := s.cache.Get(key); ok {
		if page, ok := cached.(*model.TodoPage); ok {
			return page, nil
		}
	}

	ownerID := actor.ID
	if actor.Role == model.RoleAdmin {
		ownerID = 0
	}

	var (
		todos []model.Todo
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		todos, err = s.todoDAO.ListTodos(gctx, ownerID, skip, limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.todoDAO.CountTodos(gctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	page := &model.TodoPage{
		Items: model.NewTodoReads(todos),
		Total: total,
		Skip:  skip,
		Limit: limit,
	}
	s.cache.Set(key, page, viper.GetDuration("cache.listTTL"))
	return page, nil
}

// GetTodo fetches one todo, subtree included.
func (s *TodoService) GetTodo(ctx context.Context, actor authz.Actor, id int) (*model.Todo, error) {
	subject, err := s.checker.Authorize(ctx, actor, authz.ActionRead, authz.ResourceTodo, id, nil)
	if err != nil {
		return nil, err
	}
	return subject.Todo, nil
}

// CreateTodo creates a todo owned by the actor, optionally nested under
// a parent.
func (s *TodoService) CreateTodo(ctx context.Context, actor authz.Actor, req model.TodoCreateRequest) (*model.Todo, error) {
	if err := s.validationUtil.ValidateTodoCreate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", echo_errors.ErrInvalidTodoData, err)
	}

	if _, err := s.checker.Authorize(ctx, actor, authz.ActionCreate, authz.ResourceTodo, 0, nil); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.todoDAO.GetTodoByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.UserID != actor.ID && actor.Role != model.RoleAdmin {
			return nil, echo_errors.ErrForbidden
		}
	}

	todo := &model.Todo{
		Text:     req.Text,
		Done:     req.Done,
		ParentID: req.ParentID,
		UserID:   actor.ID,
	}
	if err := s.todoDAO.CreateTodo(ctx, todo); err != nil {
		return nil, err
	}

	s.invalidate(0)
	s.eventBus.Publish(ctx, "todo.created", *todo)
	logger.Info("Todo created", zap.Int("todoID", todo.ID), zap.Int("userID", actor.ID))

	return s.todoDAO.GetTodoByID(ctx, todo.ID)
}

// UpdateTodo applies a partial update. ifMatch, when set, must equal
// the todo's current version or the write is rejected with a version
// conflict; the DAO re-checks the version inside the UPDATE itself so
// concurrent writers cannot slip between check and write.
func (s *TodoService) UpdateTodo(ctx context.Context, actor authz.Actor, id int, req model.TodoUpdateRequest, ifMatch *int) (*model.Todo, error) {
	if err := s.validationUtil.ValidateTodoUpdate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", echo_errors.ErrInvalidTodoData, err)
	}

	if _, err := s.checker.Authorize(ctx, actor, authz.ActionUpdate, authz.ResourceTodo, id, ifMatch); err != nil {
		return nil, err
	}

	changes := make(map[string]interface{})
	if req.Text != nil {
		changes["text"] = *req.Text
	}
	if req.Done != nil {
		changes["done"] = *req.Done
	}

	updated, err := s.todoDAO.UpdateTodo(ctx, id, changes, ifMatch)
	if err != nil {
		return nil, err
	}

	s.invalidate(id)
	s.eventBus.Publish(ctx, "todo.updated", *updated)
	return updated, nil
}

// DeleteTodo removes a todo and its whole subtree under the same guard
// semantics as UpdateTodo.
func (s *TodoService) DeleteTodo(ctx context.Context, actor authz.Actor, id int, ifMatch *int) error {
	if _, err := s.checker.Authorize(ctx, actor, authz.ActionDelete, authz.ResourceTodo, id, ifMatch); err != nil {
		return err
	}

	if err := s.todoDAO.DeleteTodo(ctx, id, ifMatch); err != nil {
		return err
	}

	s.invalidate(id)
	s.eventBus.Publish(ctx, "todo.deleted", model.Todo{ID: id})
	logger.Info("Todo deleted", zap.Int("todoID", id), zap.Int("userID", actor.ID))
	return nil
}

// invalidate drops everything after a mutation. Coarse on purpose:
// list pages for one actor can surface another actor's todos (admin
// views), so tracking precise dependencies isn't worth it at this
// cache's lifetime.
func (s *TodoService) invalidate(todoID int) {
	if todoID != 0 {
		s.cache.Delete(cache.TodoMetaKey(todoID))
	}
	s.cache.ClearAll()
}
