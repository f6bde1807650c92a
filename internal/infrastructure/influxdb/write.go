package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WritePointWithTime queues a point with an explicit timestamp.
// It is a no-op once the client is closed.
//
// Parameters:
//   - measurement: The measurement name (e.g., "task_activity")
//   - tags: Indexed string values used for grouping and filtering
//   - fields: The recorded values
//   - ts: The point's timestamp
//
// Writes are batched and never block. Failures surface through the
// callback registered with SetOnError.
//
// Example:
//
//	client.WritePointWithTime("task_activity",
//	    map[string]string{"action": "close", "actor_role": "user"},
//	    map[string]any{"task_id": int64(42), "is_closed": true}, time.Now())
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, ts time.Time) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, ts))
}
