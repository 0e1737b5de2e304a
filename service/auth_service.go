// service/auth_service.go
package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dev-kunalpandey/tudu/api/audit"
	"github.com/dev-kunalpandey/tudu/api/dao"
	echo_errors "github.com/dev-kunalpandey/tudu/api/errors"
	logger "github.com/dev-kunalpandey/tudu/api/logging"
	"github.com/dev-kunalpandey/tudu/api/model"
	"github.com/dev-kunalpandey/tudu/api/util"
)

// AuthService handles registration, password login and the TOTP MFA
// flows.
type AuthService struct {
	userDAO        *dao.UserDAO
	tokens         *util.TokenService
	validationUtil *util.ValidationUtil
	auditService   audit.Service
	eventBus       *util.EventBus
}

func NewAuthService(userDAO *dao.UserDAO, tokens *util.TokenService, validationUtil *util.ValidationUtil, auditService audit.Service, eventBus *util.EventBus) *AuthService {
	return &AuthService{
		userDAO:        userDAO,
		tokens:         tokens,
		validationUtil: validationUtil,
		auditService:   auditService,
		eventBus:       eventBus,
	}
}

// Register creates an account and logs the user straight in.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.TokenResponse, error) {
	if err := s.validationUtil.ValidateRegistration(req); err != nil {
		return nil, fmt.Errorf("%w: %v", echo_errors.ErrInvalidUserData, err)
	}

	if _, err := s.userDAO.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, echo_errors.ErrUserConflict
	}

	hashed, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:    req.Email,
		Password: hashed,
		Name:     req.Name,
		Role:     model.RoleUser,
	}
	if err := s.userDAO.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, "user.registered", *user)

	token, err := s.tokens.CreateToken(user.Email, util.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	logger.Info("User registered", zap.Int("userID", user.ID))
	return &model.TokenResponse{
		Token:     token,
		TokenType: "bearer",
		User:      model.NewUserRead(user),
	}, nil
}

// Login verifies the password and branches into the MFA flow: users
// without MFA are forced through setup, users with MFA get a temp
// token and must present a TOTP code. No access token is issued here.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest, ip, userAgent string) (*model.TokenResponse, error) {
	user, err := s.userDAO.GetUserByEmail(ctx, req.Email)
	if err != nil || !util.VerifyPassword(req.Password, user.Password) {
		if err == nil {
			s.recordLogin(ctx, user.ID, ip, userAgent, audit.LoginFailed)
		}
		return nil, echo_errors.ErrInvalidCredentials
	}

	status := audit.LoginSuccess
	if user.MFAEnabled {
		status = audit.LoginMFAPending
	}
	s.recordLogin(ctx, user.ID, ip, userAgent, status)

	tempToken, err := s.tokens.CreateToken(user.Email, util.TempToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	if !user.MFAEnabled {
		// First login (or MFA never finished): force enrollment.
		return &model.TokenResponse{MFASetupRequired: true, TempToken: tempToken}, nil
	}

	return &model.TokenResponse{MFARequired: true, TempToken: tempToken}, nil
}

// PasswordToken is the OAuth2-style form login used by tooling; it
// bypasses the MFA branching.
func (s *AuthService) PasswordToken(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.userDAO.GetUserByEmail(ctx, email)
	if err != nil || !util.VerifyPassword(password, user.Password) {
		return nil, echo_errors.ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(user.Email, util.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &model.TokenResponse{
		Token:     token,
		TokenType: "bearer",
		User:      model.NewUserRead(user),
	}, nil
}

// MFASetup generates a fresh TOTP secret, stores it (MFA still
// disabled until verified) and returns it with a QR code.
func (s *AuthService) MFASetup(ctx context.Context, user *model.User) (*model.MFASetupResponse, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      viper.GetString("mfa.issuer"),
		AccountName: user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate totp secret: %w", err)
	}

	if _, err := s.userDAO.UpdateUser(ctx, user.ID, map[string]interface{}{"mfa_secret": key.Secret()}); err != nil {
		return nil, err
	}

	img, err := key.Image(200, 200)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}

	logger.Info("MFA setup initiated", zap.Int("userID", user.ID))
	return &model.MFASetupResponse{
		Secret: key.Secret(),
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// MFAVerify checks the first TOTP code after setup, enables MFA and
// issues the real access token.
func (s *AuthService) MFAVerify(ctx context.Context, user *model.User, otpCode string) (*model.TokenResponse, error) {
	if user.MFASecret == "" {
		return nil, echo_errors.ErrMFANotInitiated
	}

	if !validTOTP(otpCode, user.MFASecret) {
		return nil, echo_errors.ErrInvalidOTP
	}

	updated, err := s.userDAO.UpdateUser(ctx, user.ID, map[string]interface{}{"mfa_enabled": true})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.CreateToken(updated.Email, util.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	logger.Info("MFA enabled", zap.Int("userID", user.ID))
	return &model.TokenResponse{
		Token:     token,
		TokenType: "bearer",
		User:      model.NewUserRead(updated),
	}, nil
}

// MFALogin completes a login for a user whose MFA is already enabled.
func (s *AuthService) MFALogin(ctx context.Context, user *model.User, otpCode string) (*model.TokenResponse, error) {
	if !user.MFAEnabled {
		return nil, echo_errors.ErrMFANotEnabled
	}
	if user.MFASecret == "" {
		return nil, echo_errors.ErrMFAIntegrity
	}

	if !validTOTP(otpCode, user.MFASecret) {
		return nil, echo_errors.ErrInvalidOTP
	}

	token, err := s.tokens.CreateToken(user.Email, util.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &model.TokenResponse{
		Token:     token,
		TokenType: "bearer",
		User:      model.NewUserRead(user),
	}, nil
}

func (s *AuthService) recordLogin(ctx context.Context, userID int, ip, userAgent string, status audit.LoginStatus) {
	err := s.auditService.RecordLogin(ctx, audit.LoginRecord{
		UserID:    userID,
		IPAddress: ip,
		UserAgent: userAgent,
		Status:    status,
	})
	if err != nil {
		// Login proceeds even when the audit write fails.
		logger.Warn("Failed to record login", zap.Error(err), zap.Int("userID", userID))
	}
}

// validTOTP accepts one 30s window of drift in either direction.
func validTOTP(code, secret string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
