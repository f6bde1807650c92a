package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Username and password rules enforced at registration.
const (
	minUsernameLength = 8
	maxUsernameLength = 20
	minPasswordLength = 8
	maxPasswordLength = 100
)

// usernamePattern allows lowercase alphanumerics, dots, hyphens and underscores.
var usernamePattern = regexp.MustCompile(`^[a-z0-9._-]+$`)

var (
	passwordLower   = regexp.MustCompile(`[a-z]`)
	passwordUpper2  = regexp.MustCompile(`[A-Z].*[A-Z]`)
	passwordDigit   = regexp.MustCompile(`\d`)
	passwordSpecial = regexp.MustCompile(`[@$!%*?&]`)
)

// NormalizeUsername returns the canonical (lowercase, trimmed) form of a login name.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// IsValidUsername checks an already normalized login name.
// Usernames are 8-20 characters of [a-z0-9._-].
func IsValidUsername(username string) bool {
	n := len(username)
	return n >= minUsernameLength && n <= maxUsernameLength && usernamePattern.MatchString(username)
}

// ValidatePassword checks the password strength rules and returns an
// ErrWeakPassword describing the first rule broken.
func ValidatePassword(password string) error {
	switch n := len(password); {
	case n < minPasswordLength || n > maxPasswordLength:
		return fmt.Errorf("%w: must be %d-%d characters", ErrWeakPassword, minPasswordLength, maxPasswordLength)
	case !passwordLower.MatchString(password):
		return fmt.Errorf("%w: needs at least 1 lowercase letter", ErrWeakPassword)
	case !passwordUpper2.MatchString(password):
		return fmt.Errorf("%w: needs at least 2 uppercase letters", ErrWeakPassword)
	case !passwordDigit.MatchString(password):
		return fmt.Errorf("%w: needs at least 1 number", ErrWeakPassword)
	case !passwordSpecial.MatchString(password):
		return fmt.Errorf("%w: needs at least 1 of @$!%%*?&", ErrWeakPassword)
	}
	return nil
}

// User is a stored account. The password digest never leaves this package
// in serialised form; use Public for anything returned to a caller.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"` // never serialised
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the caller-facing projection of a User.
type PublicUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public projects the user without its password digest.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Principal is the resolved identity of an authenticated request.
type Principal struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// Principal returns the request identity for this user.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

// TokenInfo is returned by a successful sign-in.
type TokenInfo struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds

	// SubjectID is the signed-in account, for the caller's own records.
	SubjectID int64 `json:"-"`
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateLogin     = errors.New("username already exists")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrSelfModification   = errors.New("cannot modify own account in this way")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrWeakPassword       = errors.New("password does not meet requirements")
)
