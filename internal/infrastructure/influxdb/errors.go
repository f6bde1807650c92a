package influxdb

import "errors"

var (
	// ErrNotConnected is returned by HealthCheck on a closed or nil client.
	ErrNotConnected = errors.New("influxdb: client closed")

	// ErrConnectionFailed wraps a failed startup ping.
	ErrConnectionFailed = errors.New("influxdb: startup ping failed")

	// ErrDisabled is returned by Connect when influxdb.enabled is false.
	ErrDisabled = errors.New("influxdb: activity metrics disabled")
)
