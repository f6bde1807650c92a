package mqtt

import "errors"

// Sentinel errors returned by the event publisher.
var (
	// ErrNotConnected means the broker link is down.
	ErrNotConnected = errors.New("mqtt: broker link down")

	// ErrConnectionFailed wraps a failed first connect.
	ErrConnectionFailed = errors.New("mqtt: connect failed")

	// ErrPublishFailed wraps a rejected, oversized or timed-out event.
	ErrPublishFailed = errors.New("mqtt: event not published")

	// ErrInvalidQoS rejects QoS levels other than 0, 1 and 2.
	ErrInvalidQoS = errors.New("mqtt: qos out of range")

	// ErrInvalidTopic rejects an empty topic.
	ErrInvalidTopic = errors.New("mqtt: empty topic")
)
