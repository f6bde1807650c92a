package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Actions carried by an Event.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event describes an accepted mutation.
type Event struct {
	Action       string    `json:"action"`
	TaskID       int64     `json:"task_id"`
	ActorID      int64     `json:"actor_id"`
	ActorIsAdmin bool      `json:"actor_is_admin"`
	IsClosed     bool      `json:"is_closed"`
	At           time.Time `json:"at"`
}

// EventSink receives an Event after every accepted mutation.
// A sink error is logged and never changes the outcome of the operation.
type EventSink interface {
	Publish(ctx context.Context, e Event) error
}

type nopSink struct{}

func (nopSink) Publish(context.Context, Event) error { return nil }

// Engine applies the task rules against a Repository.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	repo   Repository
	now    func() time.Time
	sink   EventSink
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used for task timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithEventSink sets where mutation events are sent.
func WithEventSink(sink EventSink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.sink = sink
		}
	}
}

// WithLogger sets the logger used for sink failures.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an Engine over repo.
func NewEngine(repo Repository, opts ...Option) *Engine {
	e := &Engine{
		repo:   repo,
		now:    time.Now,
		sink:   nopSink{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Create stores a new open task owned by p. Creation is never denied;
// field validation is the caller's job.
func (e *Engine) Create(ctx context.Context, p Principal, f NewTaskFields) (*Task, error) {
	t := NewTask(p, f, e.timestamp())
	if err := e.repo.Create(ctx, &t); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	e.emit(ctx, ActionCreated, p, &t, t.CreatedAt)
	return &t, nil
}

// List returns the tasks p may see.
func (e *Engine) List(ctx context.Context, p Principal) ([]Task, error) {
	tasks, err := e.repo.List(ctx, ListFilter(p))
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// Get returns task id if p may read it.
func (e *Engine) Get(ctx context.Context, p Principal, id int64) (Result, error) {
	t, err := e.load(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if d := DecideRead(p, t); !d.Allowed() {
		return denied(d.Reason), nil
	}
	return allowed(t), nil
}

// Update applies c to task id on behalf of p.
// Concurrent updates are last-write-wins.
func (e *Engine) Update(ctx context.Context, p Principal, id int64, c Change) (Result, error) {
	t, err := e.load(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if d := DecideUpdate(p, t, c); !d.Allowed() {
		return denied(d.Reason), nil
	}

	updated := Apply(p, *t, c, e.timestamp())
	if err := e.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return denied(ReasonNotFound), nil
		}
		return Result{}, fmt.Errorf("updating task %d: %w", id, err)
	}

	e.emit(ctx, ActionUpdated, p, &updated, updated.UpdatedAt)
	return allowed(&updated), nil
}

// Delete removes task id. The returned task is the removed record with
// UpdatedByID set to the deleting admin.
func (e *Engine) Delete(ctx context.Context, p Principal, id int64) (Result, error) {
	t, err := e.load(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if d := DecideDelete(p, t); !d.Allowed() {
		return denied(d.Reason), nil
	}

	if err := e.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return denied(ReasonNotFound), nil
		}
		return Result{}, fmt.Errorf("deleting task %d: %w", id, err)
	}

	now := e.timestamp()
	t.UpdatedByID, t.UpdatedAt = p.ID, now
	e.emit(ctx, ActionDeleted, p, t, now)
	return allowed(t), nil
}

// load fetches a task, mapping absence to a nil task.
func (e *Engine) load(ctx context.Context, id int64) (*Task, error) {
	t, err := e.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading task %d: %w", id, err)
	}
	return t, nil
}

func (e *Engine) timestamp() time.Time {
	return e.now().UTC()
}

func (e *Engine) emit(ctx context.Context, action string, p Principal, t *Task, at time.Time) {
	ev := Event{
		Action:       action,
		TaskID:       t.ID,
		ActorID:      p.ID,
		ActorIsAdmin: p.IsAdmin,
		IsClosed:     t.IsClosed,
		At:           at,
	}
	if err := e.sink.Publish(ctx, ev); err != nil {
		e.logger.Warn("task event not delivered",
			"action", action,
			"task_id", t.ID,
			"error", err,
		)
	}
}
