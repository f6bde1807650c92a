package activity

import (
	"context"
	"time"

	"github.com/nerrad567/tasktrack-core/internal/task"
)

// Measurement is the InfluxDB measurement written by InfluxSink.
const Measurement = "task_activity"

// Actor roles used as the actor_role tag.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// PointWriter is the subset of *influxdb.Client used by InfluxSink.
type PointWriter interface {
	WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, ts time.Time)
}

// InfluxSink records task events as time-series points.
// Writes are batched by the client and never fail synchronously.
type InfluxSink struct {
	w PointWriter
}

// NewInfluxSink creates a sink writing through w.
func NewInfluxSink(w PointWriter) *InfluxSink {
	return &InfluxSink{w: w}
}

// Publish implements task.EventSink.
func (s *InfluxSink) Publish(_ context.Context, e task.Event) error {
	role := RoleUser
	if e.ActorIsAdmin {
		role = RoleAdmin
	}

	s.w.WritePointWithTime(Measurement,
		map[string]string{
			"action":     e.Action,
			"actor_role": role,
		},
		map[string]any{
			"task_id":   e.TaskID,
			"is_closed": e.IsClosed,
		},
		e.At,
	)
	return nil
}
