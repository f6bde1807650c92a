package activity

import (
	"context"
	"errors"

	"github.com/nerrad567/tasktrack-core/internal/task"
)

// Fanout forwards every event to each non-nil sink in order.
// All sinks are tried; their errors are joined.
type Fanout []task.EventSink

// Publish implements task.EventSink.
func (f Fanout) Publish(ctx context.Context, e task.Event) error {
	var errs []error
	for _, sink := range f {
		if sink == nil {
			continue
		}
		if err := sink.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
