// Package activity fans task mutation events out to external consumers.
//
// Each sink implements task.EventSink:
//   - MQTTSink publishes the event as JSON on tasktrack/events/task/{id}
//   - InfluxSink writes a task_activity point (tags action, actor_role;
//     fields task_id, is_closed)
//   - Fanout forwards one event to several sinks
//
// Sinks only report failures; the engine logs them and the mutation
// stands regardless.
package activity
