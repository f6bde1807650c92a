package auth

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/nerrad567/tasktrack-core/internal/infrastructure/database"
	"github.com/nerrad567/tasktrack-core/migrations"
)

// testDB opens a temp-file SQLite database with the full schema applied.
// WAL mode needs a real file, so in-memory databases are not used.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(context.Background(), database.Config{
		Path:        filepath.Join(t.TempDir(), "auth-test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // test cleanup

	if err := db.Migrate(context.Background(), migrations.FS); err != nil {
		t.Fatalf("applying migrations: %v", err)
	}
	return db.DB
}

// seedTestUser inserts a user with the given password and returns it.
func seedTestUser(t *testing.T, db *sql.DB, username, password string, isAdmin bool) *User {
	t.Helper()

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	user := &User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
	if err := NewUserRepository(db).Create(t.Context(), user); err != nil {
		t.Fatalf("creating test user %s: %v", username, err)
	}
	return user
}

// countingHasher wraps Argon2Hasher and records how often each method runs.
type countingHasher struct {
	Argon2Hasher
	hashes   int
	verifies int
}

func (h *countingHasher) Hash(plaintext string) (string, error) {
	h.hashes++
	return h.Argon2Hasher.Hash(plaintext)
}

func (h *countingHasher) Verify(plaintext, digest string) bool {
	h.verifies++
	return h.Argon2Hasher.Verify(plaintext, digest)
}
