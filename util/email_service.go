// util/email_service.go
package util

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	echo_errors "github.com/dev-kunalpandey/tudu/api/errors"
	logger "github.com/dev-kunalpandey/tudu/api/logging"
)

type EmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService() *EmailService {
	return &EmailService{
		apiKey:    viper.GetString("sendgrid.apiKey"),
		fromEmail: viper.GetString("email.from"),
		fromName:  viper.GetString("email.fromName"),
	}
}

func (e *EmailService) Send(ctx context.Context, toEmail, subject, htmlBody string) error {
	if e.apiKey == "" {
		return echo_errors.ErrEmailNotConfigured
	}

	from := mail.NewEmail(e.fromName, e.fromEmail)
	to := mail.NewEmail(toEmail, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(e.apiKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		logger.Error("Failed to send email", zap.Error(err), zap.String("to", toEmail))
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Debug("Email sent",
		zap.String("to", toEmail),
		zap.Int("status", resp.StatusCode))
	return nil
}

// SendWelcomeEmail mails the temporary credentials for an
// admin-created account.
func (e *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, tempPassword string) error {
	html := fmt.Sprintf(`
	<h3>Welcome to Todo App</h3>
	<p>Your account has been created by the administrator.</p>
	<p><b>Username:</b> %s</p>
	<p><b>Temporary Password:</b> %s</p>
	<p>Please login and change your password immediately.</p>
	`, toEmail, tempPassword)

	return e.Send(ctx, toEmail, "Welcome to Todo App - Your Credentials", html)
}
