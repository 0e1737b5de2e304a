// util/token_service.go
package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/viper"

	echo_errors "github.com/dev-kunalpandey/tudu/api/errors"
)

// TokenType distinguishes full access tokens from the short-lived temp
// tokens handed out mid-MFA.
type TokenType string

const (
	AccessToken TokenType = "access"
	TempToken   TokenType = "temp"
)

type Claims struct {
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret     string
	issuer     string
	expiry     time.Duration
	tempExpiry time.Duration
}

func NewTokenService() *TokenService {
	return &TokenService{
		secret:     viper.GetString("jwt.secret"),
		issuer:     viper.GetString("jwt.issuer"),
		expiry:     viper.GetDuration("jwt.accessTokenExpiry"),
		tempExpiry: viper.GetDuration("jwt.tempTokenExpiry"),
	}
}

// CreateToken signs an HS256 token for subject (the user's email).
func (t *TokenService) CreateToken(subject string, tokenType TokenType) (string, error) {
	expiry := t.expiry
	if tokenType == TempToken {
		expiry = t.tempExpiry
	}

	claims := Claims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   subject,
			Issuer:    t.issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.secret))
}

// ParseClaims validates a token string and returns its claims.
func (t *TokenService) ParseClaims(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(t.secret), nil
	})
	if err != nil {
		return nil, echo_errors.ErrInvalidToken
	}

	if !token.Valid {
		return nil, echo_errors.ErrInvalidToken
	}

	return claims, nil
}
