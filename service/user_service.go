// service/user_service.go
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dev-kunalpandey/tudu/api/audit"
	"github.com/dev-kunalpandey/tudu/api/authz"
	"github.com/dev-kunalpandey/tudu/api/cache"
	"github.com/dev-kunalpandey/tudu/api/dao"
	echo_errors "github.com/dev-kunalpandey/tudu/api/errors"
	logger "github.com/dev-kunalpandey/tudu/api/logging"
	"github.com/dev-kunalpandey/tudu/api/model"
	"github.com/dev-kunalpandey/tudu/api/util"
)

// UserService is the admin-facing user management surface.
type UserService struct {
	userDAO             *dao.UserDAO
	checker             *authz.Checker
	cache               *cache.Cache
	validationUtil      *util.ValidationUtil
	notificationService *util.NotificationService
	auditService        audit.Service
	eventBus            *util.EventBus
}

func NewUserService(userDAO *dao.UserDAO, checker *authz.Checker, c *cache.Cache, validationUtil *util.ValidationUtil, notificationService *util.NotificationService, auditService audit.Service, eventBus *util.EventBus) *UserService {
	return &UserService{
		userDAO:             userDAO,
		checker:             checker,
		cache:               c,
		validationUtil:      validationUtil,
		notificationService: notificationService,
		auditService:        auditService,
		eventBus:            eventBus,
	}
}

// CreateUser provisions an account with a generated temporary password
// and mails it out. When delivery fails the password is handed back in
// the response instead, so the admin can pass it on.
func (s *UserService) CreateUser(ctx context.Context, actor authz.Actor, req model.AdminCreateUserRequest) (*model.AdminCreateUserResponse, error) {
	if _, err := s.checker.Authorize(ctx, actor, authz.ActionCreate, authz.ResourceUser, 0, nil); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if err := s.validationUtil.ValidateRole(role); err != nil {
		return nil, fmt.Errorf("%w: %v", echo_errors.ErrInvalidUserData, err)
	}

	if _, err := s.userDAO.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, echo_errors.ErrUserConflict
	}

	tempPassword, err := util.RandomPassword(12)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	hashed, err := util.HashPassword(tempPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:    req.Email,
		Password: hashed,
		Name:     req.Name,
		Role:     role,
	}
	if err := s.userDAO.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.cache.ClearAll()
	s.eventBus.Publish(ctx, "user.created", *user)
	logger.Info("User created by admin",
		zap.Int("userID", user.ID),
		zap.Int("adminID", actor.ID))

	resp := &model.AdminCreateUserResponse{UserID: user.ID}
	if err := s.notificationService.NotifyUserCreated(ctx, *user, tempPassword); err != nil {
		logger.Warn("Welcome email failed, returning temp password inline",
			zap.Error(err), zap.Int("userID", user.ID))
		resp.Message = "User created, but the welcome email could not be sent"
		resp.TempPassword = tempPassword
	} else {
		resp.Message = "User created, credentials emailed"
	}
	return resp, nil
}

// ListUsers pages through all accounts. Admin only.
func (s *UserService) ListUsers(ctx context.Context, actor authz.Actor, skip, limit int) ([]model.UserRead, error) {
	// Listing resolves no concrete resource, so the policy engine has
	// no ownership to rule on; gate on role explicitly.
	if actor.Role != model.RoleAdmin {
		return nil, echo_errors.ErrForbidden
	}
	if _, err := s.checker.Authorize(ctx, actor, authz.ActionRead, authz.ResourceUser, 0, nil); err != nil {
		return nil, err
	}

	users, err := s.userDAO.ListUsers(ctx, skip, limit)
	if err != nil {
		return nil, err
	}

	reads := make([]model.UserRead, 0, len(users))
	for i := range users {
		reads = append(reads, *model.NewUserRead(&users[i]))
	}
	return reads, nil
}

// GetUser fetches one account. Admins reach anyone; users only
// themselves.
func (s *UserService) GetUser(ctx context.Context, actor authz.Actor, id int) (*model.User, error) {
	subject, err := s.checker.Authorize(ctx, actor, authz.ActionRead, authz.ResourceUser, id, nil)
	if err != nil {
		return nil, err
	}
	return subject.User, nil
}

// UpdateUser applies an admin edit to name and/or role.
func (s *UserService) UpdateUser(ctx context.Context, actor authz.Actor, id int, req model.AdminUpdateUserRequest) (*model.User, error) {
	if _, err := s.checker.Authorize(ctx, actor, authz.ActionUpdate, authz.ResourceUser, id, nil); err != nil {
		return nil, err
	}

	changes := make(map[string]interface{})
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.Role != nil {
		if err := s.validationUtil.ValidateRole(*req.Role); err != nil {
			return nil, fmt.Errorf("%w: %v", echo_errors.ErrInvalidUserData, err)
		}
		changes["role"] = *req.Role
	}
	if len(changes) == 0 {
		return nil, fmt.Errorf("%w: update must change at least one field", echo_errors.ErrInvalidUserData)
	}

	updated, err := s.userDAO.UpdateUser(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(cache.UserPolicyContextKey(id))
	s.cache.ClearAll()
	s.eventBus.Publish(ctx, "user.updated", *updated)
	return updated, nil
}

// DeleteUser removes an account and all its todos.
func (s *UserService) DeleteUser(ctx context.Context, actor authz.Actor, id int) error {
	if _, err := s.checker.Authorize(ctx, actor, authz.ActionDelete, authz.ResourceUser, id, nil); err != nil {
		return err
	}

	if err := s.userDAO.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.cache.ClearAll()
	s.eventBus.Publish(ctx, "user.deleted", model.User{ID: id})
	logger.Info("User deleted", zap.Int("userID", id), zap.Int("adminID", actor.ID))
	return nil
}

// RecentLogins returns the newest login history entries for a user.
func (s *UserService) RecentLogins(ctx context.Context, actor authz.Actor, id, limit int) ([]audit.LoginRecord, error) {
	if _, err := s.checker.Authorize(ctx, actor, authz.ActionRead, authz.ResourceUser, id, nil); err != nil {
		return nil, err
	}
	return s.auditService.RecentLogins(ctx, id, limit)
}
