// dao/user_dao.go
package dao

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	echo_errors "github.com/dev-kunalpandey/tudu/api/errors"
	logger "github.com/dev-kunalpandey/tudu/api/logging"
	"github.com/dev-kunalpandey/tudu/api/model"
)

type UserDAO struct {
	DB *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{DB: db}
}

func (dao *UserDAO) CreateUser(ctx context.Context, user *model.User) error {
	err := dao.DB.WithContext(ctx).Create(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo_errors.ErrUserConflict
		}
		logger.Error("Error creating user", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, err)
	}
	return nil
}

func (dao *UserDAO) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	var user model.User
	err := dao.DB.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo_errors.ErrUserNotFound
		}
		logger.Error("Error fetching user", zap.Error(err), zap.Int("userID", id))
		return nil, fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, err)
	}
	return &user, nil
}

func (dao *UserDAO) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := dao.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo_errors.ErrUserNotFound
		}
		logger.Error("Error fetching user by email", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, err)
	}
	return &user, nil
}

func (dao *UserDAO) ListUsers(ctx context.Context, skip, limit int) ([]model.User, error) {
	var users []model.User
	err := dao.DB.WithContext(ctx).Order("id").Offset(skip).Limit(limit).Find(&users).Error
	if err != nil {
		logger.Error("Error listing users", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, err)
	}
	return users, nil
}

func (dao *UserDAO) UpdateUser(ctx context.Context, id int, changes map[string]interface{}) (*model.User, error) {
	result := dao.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		logger.Error("Error updating user", zap.Error(result.Error), zap.Int("userID", id))
		return nil, fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, echo_errors.ErrUserNotFound
	}
	return dao.GetUserByID(ctx, id)
}

// DeleteUser removes the account together with every todo it owns.
func (dao *UserDAO) DeleteUser(ctx context.Context, id int) error {
	return dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.Todo{}).Error; err != nil {
			return fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, err)
		}

		result := tx.Where("id = ?", id).Delete(&model.User{})
		if result.Error != nil {
			return fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, result.Error)
		}
		if result.RowsAffected == 0 {
			return echo_errors.ErrUserNotFound
		}
		return nil
	})
}
