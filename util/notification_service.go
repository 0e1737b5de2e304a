// util/notification_service.go

package util

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/dev-kunalpandey/tudu/api/logging"
	"github.com/dev-kunalpandey/tudu/api/model"
)

type NotificationService struct {
	email *EmailService
}

func NewNotificationService(email *EmailService) *NotificationService {
	return &NotificationService{email: email}
}

// NotifyUserCreated mails the temporary credentials to a freshly
// created account. The caller decides what to do when delivery fails.
func (n *NotificationService) NotifyUserCreated(ctx context.Context, user model.User, tempPassword string) error {
	logger.Info("NOTIFICATION: New user created",
		zap.Int("userID", user.ID),
		zap.String("email", user.Email))
	return n.email.SendWelcomeEmail(ctx, user.Email, tempPassword)
}

func (n *NotificationService) NotifyTodoChange(ctx context.Context, changeType string, todo model.Todo) error {
	logger.Info("NOTIFICATION: Todo "+changeType,
		zap.Int("todoID", todo.ID),
		zap.Int("ownerID", todo.UserID),
		zap.Int("version", todo.Version))
	return nil
}

func (n *NotificationService) NotifyUserChange(ctx context.Context, changeType string, user model.User) error {
	logger.Info("NOTIFICATION: User "+changeType,
		zap.Int("userID", user.ID),
		zap.String("email", user.Email))
	return nil
}
