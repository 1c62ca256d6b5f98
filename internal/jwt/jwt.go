package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. A token minted for one purpose is rejected everywhere else.
const (
	PurposeAccess       = "access"
	PurposeRefresh      = "refresh"
	PurposeVerification = "email_verification"
)

// Verification links stay valid long enough to survive a slow inbox
const verificationTTL = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Claims includes the registered claims plus our user fields
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"user_id,omitempty"`
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
}

// JWTService issues and parses the three token kinds
type JWTService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(secret string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *JWTService) generate(userID, email, purpose string, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		UserID:  userID,
		Email:   email,
		Purpose: purpose,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// GenerateToken issues a short-lived access token
func (s *JWTService) GenerateToken(userID, email string) (string, error) {
	return s.generate(userID, email, PurposeAccess, s.accessTTL)
}

// GenerateRefreshToken issues a long-lived refresh token
func (s *JWTService) GenerateRefreshToken(userID, email string) (string, error) {
	return s.generate(userID, email, PurposeRefresh, s.refreshTTL)
}

// GenerateVerificationToken issues an email-verification token carrying
// only the address to confirm
func (s *JWTService) GenerateVerificationToken(email string) (string, error) {
	return s.generate("", email, PurposeVerification, verificationTTL)
}

// ParseToken validates a token of the expected purpose and returns its claims
func (s *JWTService) ParseToken(tokenString, purpose string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
