package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
)

// seedPasswordBytes is the number of random bytes in a generated seed password.
const seedPasswordBytes = 16

// DemoUsername is the non-admin account created alongside demo data.
const DemoUsername = "demouser"

// SeedAdmin creates the first admin account when no users exist.
// The generated password is logged once so the operator can sign in.
// Returns the created account, or nil when seeding was skipped.
func SeedAdmin(ctx context.Context, users UserRepository, hasher PasswordHasher, username string, logger *slog.Logger) (*User, error) {
	count, err := users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking user count: %w", err)
	}
	if count > 0 {
		logger.Info("users exist, skipping admin seed")
		return nil, nil
	}

	admin, password, err := createSeedUser(ctx, users, hasher, username, true)
	if err != nil {
		return nil, fmt.Errorf("creating seed admin: %w", err)
	}

	logger.Warn("seed admin account created",
		"username", admin.Username,
		"password", password,
		"action_required", "change this password immediately",
	)
	return admin, nil
}

// SeedDemoUser creates the non-admin demo account if it does not exist yet.
// Returns the existing or created account.
func SeedDemoUser(ctx context.Context, users UserRepository, hasher PasswordHasher, logger *slog.Logger) (*User, error) {
	existing, err := users.GetByUsername(ctx, DemoUsername)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("looking up demo user: %w", err)
	}

	user, password, err := createSeedUser(ctx, users, hasher, DemoUsername, false)
	if err != nil {
		return nil, fmt.Errorf("creating demo user: %w", err)
	}

	logger.Info("demo user account created", "username", user.Username, "password", password)
	return user, nil
}

func createSeedUser(ctx context.Context, users UserRepository, hasher PasswordHasher, username string, isAdmin bool) (*User, string, error) {
	username = NormalizeUsername(username)
	if !IsValidUsername(username) {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}

	passwordBytes := make([]byte, seedPasswordBytes)
	if _, err := rand.Read(passwordBytes); err != nil {
		return nil, "", fmt.Errorf("generating seed password: %w", err)
	}
	password := hex.EncodeToString(passwordBytes)

	digest, err := hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("hashing seed password: %w", err)
	}

	user := &User{
		Username:     username,
		Email:        username + "@local.ch",
		PasswordHash: digest,
		IsAdmin:      isAdmin,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, "", err
	}
	return user, password, nil
}
