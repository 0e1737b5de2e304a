// model/response.go
package model

// TokenResponse is returned by every auth flow. For MFA branches the
// access token is withheld and a short-lived temp token is handed out
// instead.
type TokenResponse struct {
	Token            string    `json:"token,omitempty"`
	TokenType        string    `json:"token_type,omitempty"`
	MFARequired      bool      `json:"mfa_required,omitempty"`
	MFASetupRequired bool      `json:"mfa_setup_required,omitempty"`
	TempToken        string    `json:"temp_token,omitempty"`
	User             *UserRead `json:"user,omitempty"`
}

// MFASetupResponse carries the fresh TOTP secret plus a QR code the
// client renders for authenticator enrollment.
type MFASetupResponse struct {
	Secret string `json:"secret"`
	QRCode string `json:"qr_code"`
}

// TodoPage is one page of top-level todos.
type TodoPage struct {
	Items []TodoRead `json:"items"`
	Total int64      `json:"total"`
	Skip  int        `json:"skip"`
	Limit int        `json:"limit"`
}

// AdminCreateUserResponse reports the created account. TempPassword is
// only populated when the welcome email could not be delivered.
type AdminCreateUserResponse struct {
	Message      string `json:"message"`
	UserID       int    `json:"userId"`
	TempPassword string `json:"temp_password,omitempty"`
}
