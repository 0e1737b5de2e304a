// controller/auth_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	echo_errors "github.com/dev-kunalpandey/tudu/api/errors"
	"github.com/dev-kunalpandey/tudu/api/model"
	"github.com/dev-kunalpandey/tudu/api/service"
	"github.com/dev-kunalpandey/tudu/api/util"
)

type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// RegisterPublicRoutes registers the unauthenticated auth endpoints.
func (ac *AuthController) RegisterPublicRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", ac.Register)
		auth.POST("/login", ac.Login)
		auth.POST("/token", ac.Token)
	}
}

// RegisterMFARoutes registers the endpoints reachable with a temp
// token; the router wraps them in temp-token-aware auth middleware.
func (ac *AuthController) RegisterMFARoutes(r *gin.RouterGroup) {
	mfa := r.Group("/auth/mfa")
	{
		mfa.POST("/setup", ac.MFASetup)
		mfa.POST("/verify", ac.MFAVerify)
		mfa.POST("/login", ac.MFALogin)
	}
}

// Register endpoint
func (ac *AuthController) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid registration data", err)
		return
	}

	resp, err := ac.authService.Register(c, req)
	if err != nil {
		switch {
		case errors.Is(err, echo_errors.ErrUserConflict):
			util.RespondWithError(c, http.StatusConflict, "Email already registered", err)
		case errors.Is(err, echo_errors.ErrInvalidUserData):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid registration data", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to register", err)
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login endpoint
func (ac *AuthController) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid login data", err)
		return
	}

	resp, err := ac.authService.Login(c, req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, echo_errors.ErrInvalidCredentials) {
			util.RespondWithError(c, http.StatusUnauthorized, "Incorrect email or password", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to log in", err)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Token endpoint: OAuth2 password form for tooling.
func (ac *AuthController) Token(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")
	if email == "" || password == "" {
		util.RespondWithError(c, http.StatusBadRequest, "username and password are required", echo_errors.ErrInvalidCredentials)
		return
	}

	resp, err := ac.authService.PasswordToken(c, email, password)
	if err != nil {
		if errors.Is(err, echo_errors.ErrInvalidCredentials) {
			util.RespondWithError(c, http.StatusUnauthorized, "Incorrect email or password", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to issue token", err)
		}
		return
	}

	// OAuth2 wire shape.
	c.JSON(http.StatusOK, gin.H{"access_token": resp.Token, "token_type": resp.TokenType})
}

// MFASetup endpoint
func (ac *AuthController) MFASetup(c *gin.Context) {
	user, err := util.CurrentUserFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	resp, err := ac.authService.MFASetup(c, user)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to set up MFA", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MFAVerify endpoint
func (ac *AuthController) MFAVerify(c *gin.Context) {
	user, err := util.CurrentUserFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	var req model.MFAVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "OTP is required", err)
		return
	}

	resp, err := ac.authService.MFAVerify(c, user, req.OTP)
	if err != nil {
		respondMFAError(c, err, "Failed to verify MFA")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MFALogin endpoint
func (ac *AuthController) MFALogin(c *gin.Context) {
	user, err := util.CurrentUserFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	var req model.MFAVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "OTP is required", err)
		return
	}

	resp, err := ac.authService.MFALogin(c, user, req.OTP)
	if err != nil {
		respondMFAError(c, err, "Failed to complete MFA login")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func respondMFAError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, echo_errors.ErrInvalidOTP):
		util.RespondWithError(c, http.StatusBadRequest, "Invalid OTP", err)
	case errors.Is(err, echo_errors.ErrMFANotInitiated):
		util.RespondWithError(c, http.StatusBadRequest, "MFA setup has not been initiated", err)
	case errors.Is(err, echo_errors.ErrMFANotEnabled):
		util.RespondWithError(c, http.StatusBadRequest, "MFA is not enabled for this account", err)
	case errors.Is(err, echo_errors.ErrMFAIntegrity):
		util.RespondWithError(c, http.StatusInternalServerError, "MFA state is inconsistent, contact support", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, fallback, err)
	}
}
