package model

import "time"

// Role is the coarse account role. Admins bypass every ownership check
// in the policy engine.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is an account holder. The password column stores a bcrypt hash,
// never the plaintext.
type User struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `json:"-"`
	Name     string `json:"name"`

	Role       Role   `gorm:"type:varchar(16);default:USER" json:"role"`
	MFAEnabled bool   `gorm:"column:mfa_enabled;default:false" json:"mfa_enabled"`
	MFASecret  string `gorm:"column:mfa_secret" json:"-"`

	Todos []Todo `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRead is the outward representation of a user. It never exposes
// the password hash or the MFA secret.
type UserRead struct {
	ID         int    `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	MFAEnabled bool   `json:"mfa_enabled"`
}

// UserMinimal is embedded in todo responses for ownership info.
type UserMinimal struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func NewUserRead(u *User) *UserRead {
	if u == nil {
		return nil
	}
	return &UserRead{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		MFAEnabled: u.MFAEnabled,
	}
}

func NewUserMinimal(u *User) *UserMinimal {
	if u == nil {
		return nil
	}
	return &UserMinimal{ID: u.ID, Email: u.Email, Name: u.Name}
}
