package task

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// Title length bounds, in characters.
const (
	MinTitleLength = 8
	MaxTitleLength = 50
)

// ErrTaskNotFound is returned by a Repository when no task has the given ID.
var ErrTaskNotFound = errors.New("task not found")

// ErrInvalidTitle is returned when a title is outside the allowed length.
var ErrInvalidTitle = errors.New("invalid title")

// Task is a unit of tracked work. CreatedByID is the sole owner and never changes.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsClosed    bool      `json:"is_closed"`
	CreatedByID int64     `json:"created_by_id"`
	UpdatedByID int64     `json:"updated_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Principal is the part of an authenticated identity the rules look at.
type Principal struct {
	ID      int64
	IsAdmin bool
}

// NewTaskFields are the caller-supplied fields of a new task.
type NewTaskFields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Validate checks the title length.
func (f NewTaskFields) Validate() error {
	if n := utf8.RuneCountInString(f.Title); n < MinTitleLength || n > MaxTitleLength {
		return fmt.Errorf("%w: must be %d-%d characters", ErrInvalidTitle, MinTitleLength, MaxTitleLength)
	}
	return nil
}

// Change is a requested mutation. IsClosed is the only mutable field;
// nil means the caller did not ask for anything.
type Change struct {
	IsClosed *bool `json:"is_closed"`
}

// SetClosed is a convenience constructor for a Change.
func SetClosed(closed bool) Change {
	return Change{IsClosed: &closed}
}

// Filter narrows a List query. Nil fields do not constrain.
type Filter struct {
	CreatedByID *int64
	IsClosed    *bool
}

// Reason names why an operation was denied. The zero value means allowed.
type Reason string

// Denial reasons.
const (
	ReasonNone                   Reason = ""
	ReasonNotFound               Reason = "not_found"
	ReasonNotOwner               Reason = "not_owner"
	ReasonClosedToNonOwnerViewer Reason = "closed_to_non_owner_viewer"
	ReasonInvalidTransition      Reason = "invalid_transition"
	ReasonAdminRequired          Reason = "admin_required"
)

// Message is a human-readable description of the denial.
func (r Reason) Message() string {
	switch r {
	case ReasonNotFound:
		return "task not found"
	case ReasonNotOwner:
		return "task belongs to another user"
	case ReasonClosedToNonOwnerViewer:
		return "closed tasks are only visible to admins"
	case ReasonInvalidTransition:
		return "only an admin can reopen a task; users may only close their own"
	case ReasonAdminRequired:
		return "only admins can delete tasks"
	default:
		return ""
	}
}

// Decision is the outcome of a pure policy check.
type Decision struct {
	Reason Reason
}

// Allowed reports whether the decision permits the operation.
func (d Decision) Allowed() bool { return d.Reason == ReasonNone }

// Result is the outcome of an Engine operation: either the resulting task
// or the reason it was denied.
type Result struct {
	Task   *Task
	Denied Reason
}

// Allowed reports whether the operation went through.
func (r Result) Allowed() bool { return r.Denied == ReasonNone }

func allow() Decision { return Decision{} }

func deny(r Reason) Decision { return Decision{Reason: r} }

func denied(r Reason) Result { return Result{Denied: r} }

func allowed(t *Task) Result { return Result{Task: t} }
