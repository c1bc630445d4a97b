package influxdb

import "errors"

var (
	// ErrNotConnected is returned by HealthCheck after Close.
	ErrNotConnected = errors.New("influxdb: not connected")
	// ErrConnectionFailed is returned when the first ping fails.
	ErrConnectionFailed = errors.New("influxdb: connection failed")
	// ErrDisabled is returned by Connect when the sink is switched off.
	ErrDisabled = errors.New("influxdb: disabled in configuration")
)
