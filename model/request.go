// model/request.go
package model

// RegisterRequest is the self-service signup payload.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// LoginRequest is the password login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// MFAVerifyRequest carries a TOTP code for verify/login flows.
type MFAVerifyRequest struct {
	OTP string `json:"otp" binding:"required"`
}

// TodoCreateRequest creates a new (optionally nested) todo.
type TodoCreateRequest struct {
	Text     string `json:"text" binding:"required"`
	Done     bool   `json:"done"`
	ParentID *int   `json:"parentId"`
}

// TodoUpdateRequest is a partial update; nil fields are left untouched.
type TodoUpdateRequest struct {
	Text *string `json:"text"`
	Done *bool   `json:"done"`
}

// AdminCreateUserRequest creates an account on a user's behalf. The
// password is generated server-side and mailed to the new user.
type AdminCreateUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// AdminUpdateUserRequest is a partial admin-side user update.
type AdminUpdateUserRequest struct {
	Name *string `json:"name"`
	Role *Role   `json:"role"`
}
