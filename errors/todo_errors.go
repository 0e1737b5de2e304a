// errors/todo_errors.go
package errors

import "errors"

var (
	ErrTodoNotFound    = errors.New("todo not found")
	ErrInvalidTodoData = errors.New("invalid todo data")
)
