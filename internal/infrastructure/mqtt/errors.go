package mqtt

import "errors"

var (
	// ErrNotConnected is returned while the broker connection is down.
	ErrNotConnected = errors.New("mqtt: client not connected")
	// ErrConnectionFailed is returned when the broker refuses or ignores
	// the initial connection.
	ErrConnectionFailed = errors.New("mqtt: connection failed")
	// ErrPublishFailed wraps broker-side publish failures and timeouts.
	ErrPublishFailed = errors.New("mqtt: publish failed")
	// ErrSubscribeFailed wraps broker-side subscribe failures and timeouts.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")
	// ErrInvalidQoS is returned for a QoS above 2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")
	// ErrInvalidTopic is returned for an empty topic or device id.
	ErrInvalidTopic = errors.New("mqtt: topic cannot be empty")
)
