// dao/store.go
package dao

import (
	"context"

	"github.com/dev-kunalpandey/tudu/api/model"
)

// AuthzStore adapts the DAOs to the lookup surface the access checker
// expects.
type AuthzStore struct {
	todos *TodoDAO
	users *UserDAO
}

func NewAuthzStore(todos *TodoDAO, users *UserDAO) *AuthzStore {
	return &AuthzStore{todos: todos, users: users}
}

func (s *AuthzStore) FetchTodo(ctx context.Context, id int) (*model.Todo, error) {
	return s.todos.GetTodoByID(ctx, id)
}

func (s *AuthzStore) FetchUser(ctx context.Context, id int) (*model.User, error) {
	return s.users.GetUserByID(ctx, id)
}
