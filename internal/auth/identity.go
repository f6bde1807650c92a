package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// TokenType is the scheme returned with every access token.
const TokenType = "Bearer"

// dummyPassword is hashed once so sign-in for an unknown user costs the same
// as sign-in with a wrong password.
const dummyPassword = "tasktrack-timing-equaliser"

// Service owns registration, sign-in and account provisioning.
// It never returns a password digest; every user it hands out is a PublicUser.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer

	dummyOnce   sync.Once
	dummyDigest string
}

// NewService wires the identity service to its collaborators.
func NewService(users UserRepository, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

// Register creates a non-admin account. The username is normalized to lowercase
// before the uniqueness check; an existing account fails with ErrDuplicateLogin
// without hashing the password.
func (s *Service) Register(ctx context.Context, username, password, email string) (*PublicUser, error) {
	username = NormalizeUsername(username)
	if !IsValidUsername(username) {
		return nil, fmt.Errorf("%w: must be 8-20 characters of a-z, 0-9, '.', '_' or '-'", ErrInvalidUsername)
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	_, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, ErrDuplicateLogin
	case !errors.Is(err, ErrUserNotFound):
		return nil, fmt.Errorf("checking username: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: digest,
		IsAdmin:      false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateLogin) {
			return nil, ErrDuplicateLogin
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user.Public(), nil
}

// ResolveByLogin looks up an account by its normalized username.
func (s *Service) ResolveByLogin(ctx context.Context, username string) (*PublicUser, error) {
	user, err := s.resolve(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// resolve is the lookup behind ResolveByLogin and SignIn.
func (s *Service) resolve(ctx context.Context, username string) (*User, error) {
	return s.users.GetByUsername(ctx, NormalizeUsername(username))
}

// SignIn verifies credentials and mints an access token. An unknown username
// and a wrong password both fail with ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, username, password string) (*TokenInfo, error) {
	user, err := s.resolve(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.hasher.Verify(password, s.dummy())
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &TokenInfo{
		AccessToken: token,
		TokenType:   TokenType,
		ExpiresIn:   int(TokenLifetime.Seconds()),
		SubjectID:   user.ID,
	}, nil
}

// Authenticate resolves a bearer token to the current principal.
// The admin flag comes from the stored account, not the token.
func (s *Service) Authenticate(ctx context.Context, bearer string) (*Principal, error) {
	claims, err := s.tokens.Parse(bearer)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("%w: subject no longer exists", ErrTokenInvalid)
		}
		return nil, fmt.Errorf("loading token subject: %w", err)
	}

	p := user.Principal()
	return &p, nil
}

// Profile returns the caller's own account.
func (s *Service) Profile(ctx context.Context, id int64) (*PublicUser, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// ChangePassword replaces the actor's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, actor Principal, current, next string) error {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(current, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	if err := ValidatePassword(next); err != nil {
		return err
	}

	digest, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.users.UpdatePassword(ctx, user.ID, digest)
}

// ListUsers returns every account. Admin only.
func (s *Service) ListUsers(ctx context.Context, actor Principal) ([]PublicUser, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]PublicUser, 0, len(users))
	for i := range users {
		out = append(out, *users[i].Public())
	}
	return out, nil
}

// SetAdmin grants or revokes the admin flag. Admin only; an admin cannot demote themselves.
func (s *Service) SetAdmin(ctx context.Context, actor Principal, id int64, isAdmin bool) (*PublicUser, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	if id == actor.ID && !isAdmin {
		return nil, ErrSelfModification
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.IsAdmin = isAdmin
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// DeleteUser removes an account and the tasks it created. Admin only; an admin
// cannot delete themselves.
func (s *Service) DeleteUser(ctx context.Context, actor Principal, id int64) error {
	if !actor.IsAdmin {
		return ErrForbidden
	}
	if id == actor.ID {
		return ErrSelfModification
	}
	return s.users.Delete(ctx, id)
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		// A failed hash leaves the digest empty, which Verify rejects quickly.
		s.dummyDigest, _ = s.hasher.Hash(dummyPassword) //nolint:errcheck
	})
	return s.dummyDigest
}
