package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenLifetime is the fixed validity of an access token. There is no refresh.
const TokenLifetime = 24 * time.Hour

// Claims is the payload of a tasktrack access token: {sub, username, iat, exp, jti}.
// The subject is the numeric user ID.
type Claims struct {
	SubjectID int64            `json:"sub"`
	Username  string           `json:"username"`
	IssuedAt  *jwt.NumericDate `json:"iat"`
	ExpiresAt *jwt.NumericDate `json:"exp"`
	ID        string           `json:"jti,omitempty"`
}

// GetExpirationTime implements jwt.Claims.
func (c *Claims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }

// GetIssuedAt implements jwt.Claims.
func (c *Claims) GetIssuedAt() (*jwt.NumericDate, error) { return c.IssuedAt, nil }

// GetNotBefore implements jwt.Claims.
func (c *Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }

// GetIssuer implements jwt.Claims.
func (c *Claims) GetIssuer() (string, error) { return "", nil }

// GetSubject implements jwt.Claims.
func (c *Claims) GetSubject() (string, error) {
	return strconv.FormatInt(c.SubjectID, 10), nil
}

// GetAudience implements jwt.Claims.
func (c *Claims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }

// Validate is called by the jwt parser after the time-based checks.
func (c *Claims) Validate() error {
	if c.SubjectID <= 0 {
		return errors.New("missing subject")
	}
	if c.Username == "" {
		return errors.New("missing username")
	}
	return nil
}

// TokenIssuer mints and checks access tokens.
type TokenIssuer interface {
	Issue(subjectID int64, username string) (string, error)
	Parse(token string) (*Claims, error)
}

// TokenService signs HS256 access tokens with a process-wide secret.
// Rotating the secret invalidates every token already issued.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a TokenService for the given signing secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// WithClock replaces the time source used for iat/exp and expiry checks.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue creates a signed token binding subjectID and username, valid for TokenLifetime.
func (s *TokenService) Issue(subjectID int64, username string) (string, error) {
	now := s.now()
	claims := &Claims{
		SubjectID: subjectID,
		Username:  username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing access token: %w", err)
	}
	return signed, nil
}

// Parse validates the signature, algorithm and expiry of a token and returns its claims.
// Every failure wraps ErrTokenInvalid.
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
