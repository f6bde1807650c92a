package task

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/tasktrack-core/internal/infrastructure/database"
	"github.com/nerrad567/tasktrack-core/migrations"
)

// testDB opens a migrated temp-file database holding users 1 (admin), 2 and 3.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Config{
		Path:        filepath.Join(t.TempDir(), "task-test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // test cleanup

	if err := db.Migrate(ctx, migrations.FS); err != nil {
		t.Fatalf("applying migrations: %v", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, u := range []struct {
		name  string
		admin int
	}{
		{"administrator", 1},
		{"taskowner", 0},
		{"bystander", 0},
	} {
		_, err := db.ExecContext(ctx,
			`INSERT INTO users (username, email, password_hash, is_admin, created_at, updated_at) VALUES (?, ?, 'x', ?, ?, ?)`,
			u.name, u.name+"@local.ch", u.admin, now, now)
		if err != nil {
			t.Fatalf("inserting user %s: %v", u.name, err)
		}
	}
	return db.DB
}

func TestSQLiteRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(testDB(t))

	now := time.Date(2026, 3, 1, 9, 30, 0, 123456789, time.UTC)
	tk := NewTask(owner, NewTaskFields{Title: "Persisted task", Description: "with details"}, now)
	if err := repo.Create(ctx, &tk); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if tk.ID == 0 {
		t.Fatal("Create() did not assign an ID")
	}

	got, err := repo.GetByID(ctx, tk.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != tk.Title || got.Description != tk.Description {
		t.Errorf("GetByID() = %+v, want %+v", got, tk)
	}
	if got.CreatedByID != owner.ID || got.UpdatedByID != owner.ID || got.IsClosed {
		t.Errorf("GetByID() ownership = %+v", got)
	}
	if !got.CreatedAt.Equal(now) || !got.UpdatedAt.Equal(now) {
		t.Errorf("timestamps = %v / %v, want %v", got.CreatedAt, got.UpdatedAt, now)
	}
}

func TestSQLiteRepository_GetMissing(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))

	if _, err := repo.GetByID(context.Background(), 404); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("GetByID() error = %v, want ErrTaskNotFound", err)
	}
}

func TestSQLiteRepository_CreateUnknownOwner(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))

	tk := NewTask(Principal{ID: 999}, NewTaskFields{Title: "Orphaned task"}, time.Now())
	if err := repo.Create(context.Background(), &tk); err == nil {
		t.Error("Create() with unknown owner should fail the foreign key")
	}
}

func TestSQLiteRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(testDB(t))

	if n, err := SeedExamples(ctx, repo, admin.ID, owner.ID, time.Now()); err != nil || n != 4 {
		t.Fatalf("SeedExamples() = %d, %v", n, err)
	}

	ownerID := owner.ID
	open, closed := false, true

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{}, []string{"OpenAdmin", "ClosedAdmin", "OpenUser", "ClosedUser"}},
		{"by owner", Filter{CreatedByID: &ownerID}, []string{"OpenUser", "ClosedUser"}},
		{"closed", Filter{IsClosed: &closed}, []string{"ClosedAdmin", "ClosedUser"}},
		{"owner open", Filter{CreatedByID: &ownerID, IsClosed: &open}, []string{"OpenUser"}},
		{"other", ListFilter(other), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("List() returned %d tasks, want %d", len(got), len(tt.want))
			}
			for i, tk := range got {
				if tk.Title != tt.want[i] {
					t.Errorf("List()[%d] = %q, want %q", i, tk.Title, tt.want[i])
				}
				if !matchesFilter(tt.filter, &tk) {
					t.Errorf("List() returned %q which does not match the filter", tk.Title)
				}
			}
		})
	}
}

func TestSQLiteRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(testDB(t))

	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tk := NewTask(owner, NewTaskFields{Title: "Closable task"}, created)
	if err := repo.Create(ctx, &tk); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	later := created.Add(time.Hour)
	updated := Apply(admin, tk, SetClosed(true), later)
	updated.CreatedByID = other.ID
	if err := repo.Update(ctx, &updated); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, tk.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !got.IsClosed || got.UpdatedByID != admin.ID || !got.UpdatedAt.Equal(later) {
		t.Errorf("after Update() = %+v", got)
	}
	if got.CreatedByID != owner.ID {
		t.Errorf("CreatedByID = %d, want %d (never rewritten)", got.CreatedByID, owner.ID)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}

	missing := Task{ID: 404, Title: "Nowhere to be found"}
	if err := repo.Update(ctx, &missing); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrTaskNotFound", err)
	}
}

func TestSQLiteRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(testDB(t))

	tk := NewTask(owner, NewTaskFields{Title: "Short-lived task"}, time.Now())
	if err := repo.Create(ctx, &tk); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, tk.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, tk.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("second Delete() error = %v, want ErrTaskNotFound", err)
	}
	if n, err := repo.Count(ctx); err != nil || n != 0 {
		t.Errorf("Count() = %d, %v, want 0", n, err)
	}
}

func TestSQLiteRepository_DeletingOwnerRemovesTasks(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	repo := NewSQLiteRepository(db)

	mine := NewTask(owner, NewTaskFields{Title: "Owner's own task"}, time.Now())
	if err := repo.Create(ctx, &mine); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	theirs := NewTask(other, NewTaskFields{Title: "Bystander's task"}, time.Now())
	if err := repo.Create(ctx, &theirs); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	touched := Apply(owner, theirs, SetClosed(true), time.Now())
	if err := repo.Update(ctx, &touched); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", owner.ID); err != nil {
		t.Fatalf("deleting user: %v", err)
	}

	if _, err := repo.GetByID(ctx, mine.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("owner's task should be removed with the owner, got %v", err)
	}
	if _, err := repo.GetByID(ctx, theirs.ID); err != nil {
		t.Errorf("task only updated by the owner should survive, got %v", err)
	}
}
