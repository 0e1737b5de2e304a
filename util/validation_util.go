// util/validation_util.go

package util

import (
	"fmt"
	"strings"

	"github.com/dev-kunalpandey/tudu/api/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidateRegistration(req model.RegisterRequest) error {
	if strings.TrimSpace(req.Email) == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if len(req.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

func (v *ValidationUtil) ValidateTodoCreate(req model.TodoCreateRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return fmt.Errorf("todo text cannot be empty")
	}
	return nil
}

func (v *ValidationUtil) ValidateTodoUpdate(req model.TodoUpdateRequest) error {
	if req.Text == nil && req.Done == nil {
		return fmt.Errorf("update must change at least one field")
	}
	if req.Text != nil && strings.TrimSpace(*req.Text) == "" {
		return fmt.Errorf("todo text cannot be empty")
	}
	return nil
}

func (v *ValidationUtil) ValidateRole(role model.Role) error {
	if role != model.RoleUser && role != model.RoleAdmin {
		return fmt.Errorf("role must be either USER or ADMIN")
	}
	return nil
}
