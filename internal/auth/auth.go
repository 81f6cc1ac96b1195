// Package auth handles password hashing, password policy checks, and the
// minting and verification of bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidToken covers every token defect other than expiry:
	// bad signature, malformed payload, missing subject.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired marks a token that verified but is past its expiry.
	ErrTokenExpired = errors.New("token has expired")
)

// passwordSpecials are the only special characters a password may contain,
// and at least one of them is required.
const passwordSpecials = "@$!%*#?&"

// Service signs and verifies access tokens and hashes credentials.
type Service struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewService(secret string, tokenTTL time.Duration) *Service {
	return &Service{secret: []byte(secret), tokenTTL: tokenTTL}
}

// HashPassword derives a bcrypt hash for storage.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plain password matches the stored hash.
func (s *Service) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// MintToken issues a signed access token whose subject is the user id.
func (s *Service) MintToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a token and returns the user id it was issued for.
func (s *Service) ParseToken(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

// ValidatePassword enforces the password policy: 3 to 20 characters, at
// least one lowercase letter, one uppercase letter, one digit, and one of
// the allowed special characters, with no other characters permitted.
func ValidatePassword(password string) error {
	policyErr := errors.New(
		"password must be 3-20 characters and contain at least one uppercase letter, " +
			"one lowercase letter, one digit, and one special character (" + passwordSpecials + ")",
	)

	if len(password) < 3 || len(password) > 20 {
		return policyErr
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		default:
			return policyErr
		}
	}
	if !hasLower || !hasUpper || !hasDigit || !hasSpecial {
		return policyErr
	}
	return nil
}
