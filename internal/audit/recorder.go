package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/nerrad567/tasktrack-core/internal/infrastructure/logging"
	"github.com/nerrad567/tasktrack-core/internal/task"
)

// queueSize is the buffer size of the asynchronous audit queue.
// Entries beyond this are dropped (best-effort) to avoid back-pressure on requests.
const queueSize = 256

// Recorder writes audit entries in the background.
type Recorder struct {
	repo   Repository
	queue  chan *AuditLog
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder creates a Recorder writing to repo. Call Run to start draining.
func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	return newRecorder(repo, logger, queueSize)
}

func newRecorder(repo Repository, logger *slog.Logger, size int) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		repo:   repo,
		queue:  make(chan *AuditLog, size),
		logger: logger,
		now:    time.Now,
	}
}

// Record enqueues entry without blocking. The request id is taken from ctx
// when the entry has none. A nil Recorder discards everything.
func (r *Recorder) Record(ctx context.Context, entry AuditLog) {
	if r == nil {
		return
	}
	if entry.RequestID == "" {
		entry.RequestID = logging.RequestID(ctx)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now().UTC()
	}

	select {
	case r.queue <- &entry:
	default:
		r.logger.Warn("audit queue full, dropping entry",
			"action", entry.Action,
			"entity_type", entry.EntityType,
		)
	}
}

// Publish records an accepted task mutation.
func (r *Recorder) Publish(ctx context.Context, e task.Event) error {
	action := ActionUpdate
	switch e.Action {
	case task.ActionCreated:
		action = ActionCreate
	case task.ActionDeleted:
		action = ActionDelete
	}

	r.Record(ctx, AuditLog{
		Action:     action,
		EntityType: EntityTask,
		EntityID:   e.TaskID,
		ActorID:    e.ActorID,
		Details:    map[string]any{"is_closed": e.IsClosed},
		CreatedAt:  e.At,
	})
	return nil
}

// Run writes queued entries serially until ctx is cancelled, then drains
// what is left and returns.
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case entry := <-r.queue:
			r.write(entry)
		case <-ctx.Done():
			for {
				select {
				case entry := <-r.queue:
					r.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(entry *AuditLog) {
	if err := r.repo.Create(context.Background(), entry); err != nil {
		r.logger.Error("audit log write failed",
			"action", entry.Action,
			"entity_type", entry.EntityType,
			"error", err,
		)
	}
}
