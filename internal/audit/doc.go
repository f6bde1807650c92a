// Package audit records and queries the tasktrack audit trail.
//
// Entries are written asynchronously by a Recorder: callers enqueue and
// return immediately, and a single goroutine drains the queue into the
// audit_logs table. The queue is bounded; when it is full entries are
// dropped with a warning rather than slowing requests down.
//
// The Recorder is also a task.EventSink, so every accepted task mutation
// lands in the trail without the API having to log it separately.
package audit
