// dao/todo_dao.go
package dao

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dev-kunalpandey/tudu/api/authz"
	echo_errors "github.com/dev-kunalpandey/tudu/api/errors"
	logger "github.com/dev-kunalpandey/tudu/api/logging"
	"github.com/dev-kunalpandey/tudu/api/model"
)

type TodoDAO struct {
	DB *gorm.DB
}

func NewTodoDAO(db *gorm.DB) *TodoDAO {
	return &TodoDAO{DB: db}
}

func (dao *TodoDAO) CreateTodo(ctx context.Context, todo *model.Todo) error {
	todo.Version = 1
	if err := dao.DB.WithContext(ctx).Create(todo).Error; err != nil {
		logger.Error("Error creating todo", zap.Error(err), zap.Int("userID", todo.UserID))
		return fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, err)
	}
	return nil
}

func (dao *TodoDAO) GetTodoByID(ctx context.Context, id int) (*model.Todo, error) {
	var todo model.Todo
	err := dao.DB.WithContext(ctx).
		Preload("Owner").
		Preload("Children").
		First(&todo, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo_errors.ErrTodoNotFound
		}
		logger.Error("Error fetching todo", zap.Error(err), zap.Int("todoID", id))
		return nil, fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, err)
	}
	return &todo, nil
}

// ListTodos returns one page of top-level todos with owner and
// children preloaded. ownerID zero lists across all owners (admin
// view).
func (dao *TodoDAO) ListTodos(ctx context.Context, ownerID, skip, limit int) ([]model.Todo, error) {
	query := dao.DB.WithContext(ctx).
		Preload("Owner").
		Preload("Children").
		Where("parent_id IS NULL")
	if ownerID != 0 {
		query = query.Where("user_id = ?", ownerID)
	}

	var todos []model.Todo
	if err := query.Order("id").Offset(skip).Limit(limit).Find(&todos).Error; err != nil {
		logger.Error("Error listing todos", zap.Error(err), zap.Int("ownerID", ownerID))
		return nil, fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, err)
	}
	return todos, nil
}

func (dao *TodoDAO) CountTodos(ctx context.Context, ownerID int) (int64, error) {
	query := dao.DB.WithContext(ctx).Model(&model.Todo{}).Where("parent_id IS NULL")
	if ownerID != 0 {
		query = query.Where("user_id = ?", ownerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, err)
	}
	return total, nil
}

// UpdateTodo applies changes and bumps the version in one UPDATE
// statement, so the data write and the increment cannot be torn apart.
// When expectedVersion is set the statement is additionally predicated
// on it; zero affected rows is then disambiguated into not-found vs
// version conflict with a follow-up read.
func (dao *TodoDAO) UpdateTodo(ctx context.Context, id int, changes map[string]interface{}, expectedVersion *int) (*model.Todo, error) {
	updates := make(map[string]interface{}, len(changes)+1)
	for k, v := range changes {
		updates[k] = v
	}
	updates["version"] = gorm.Expr("version + 1")

	query := dao.DB.WithContext(ctx).Model(&model.Todo{}).Where("id = ?", id)
	if expectedVersion != nil {
		query = query.Where("version = ?", *expectedVersion)
	}

	result := query.Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating todo", zap.Error(result.Error), zap.Int("todoID", id))
		return nil, fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, result.Error)
	}

	if result.RowsAffected == 0 {
		return nil, dao.explainMissedWrite(ctx, id, expectedVersion)
	}

	return dao.GetTodoByID(ctx, id)
}

// DeleteTodo removes a todo and its whole subtree, honoring the
// optional version predicate the same way UpdateTodo does.
func (dao *TodoDAO) DeleteTodo(ctx context.Context, id int, expectedVersion *int) error {
	return dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("id = ?", id)
		if expectedVersion != nil {
			query = query.Where("version = ?", *expectedVersion)
		}

		result := query.Delete(&model.Todo{})
		if result.Error != nil {
			logger.Error("Error deleting todo", zap.Error(result.Error), zap.Int("todoID", id))
			return fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, result.Error)
		}

		if result.RowsAffected == 0 {
			return dao.explainMissedWriteTx(tx, id, expectedVersion)
		}

		return deleteChildren(tx, id)
	})
}

func (dao *TodoDAO) DeleteTodosByOwner(ctx context.Context, ownerID int) error {
	if err := dao.DB.WithContext(ctx).Where("user_id = ?", ownerID).Delete(&model.Todo{}).Error; err != nil {
		return fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, err)
	}
	return nil
}

func (dao *TodoDAO) explainMissedWrite(ctx context.Context, id int, expectedVersion *int) error {
	return dao.explainMissedWriteTx(dao.DB.WithContext(ctx), id, expectedVersion)
}

// explainMissedWriteTx turns a zero-rows-affected guarded write into
// the precise failure: the row is gone, or its version moved on.
func (dao *TodoDAO) explainMissedWriteTx(tx *gorm.DB, id int, expectedVersion *int) error {
	var current model.Todo
	if err := tx.Session(&gorm.Session{NewDB: true}).First(&current, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo_errors.ErrTodoNotFound
		}
		return fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, err)
	}
	if expectedVersion == nil {
		// No version predicate and the row exists: the write should
		// have hit it.
		return echo_errors.ErrDatabaseOperation
	}
	return &authz.VersionConflictError{Current: current.Version, Supplied: *expectedVersion}
}

func deleteChildren(tx *gorm.DB, parentID int) error {
	var childIDs []int
	if err := tx.Model(&model.Todo{}).Where("parent_id = ?", parentID).Pluck("id", &childIDs).Error; err != nil {
		return fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, err)
	}
	for _, childID := range childIDs {
		if err := deleteChildren(tx, childID); err != nil {
			return err
		}
		if err := tx.Where("id = ?", childID).Delete(&model.Todo{}).Error; err != nil {
			return fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, err)
		}
	}
	return nil
}
