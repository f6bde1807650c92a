package task

import (
	"context"
	"fmt"
	"time"
)

// SeedExamples stores one open and one closed example task for each of the
// admin and the demo user, unless the store already holds tasks.
// Returns the number of tasks created.
func SeedExamples(ctx context.Context, repo Repository, adminID, userID int64, now time.Time) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("checking task count: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	examples := []struct {
		title, description string
		closed             bool
		owner              int64
	}{
		{"OpenAdmin", "Example of an open admin task", false, adminID},
		{"ClosedAdmin", "Example of a closed admin task", true, adminID},
		{"OpenUser", "Example of an open user task", false, userID},
		{"ClosedUser", "Example of a closed user task", true, userID},
	}

	now = now.UTC()
	for _, ex := range examples {
		t := NewTask(Principal{ID: ex.owner}, NewTaskFields{Title: ex.title, Description: ex.description}, now)
		t.IsClosed = ex.closed
		if err := repo.Create(ctx, &t); err != nil {
			return 0, fmt.Errorf("seeding task %q: %w", ex.title, err)
		}
	}
	return len(examples), nil
}
