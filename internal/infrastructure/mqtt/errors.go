package mqtt

import "errors"

// Domain-specific errors for MQTT operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotConnected is returned when attempting operations on a disconnected client.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed is returned when the broker cannot be reached at all
	// (dial failure, TLS failure, handshake timeout).
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrConnectionRefused describes a CONNACK refusal in logs. Connect does
	// not return it; the refusal code is handed to the ConnectHandler instead.
	ErrConnectionRefused = errors.New("mqtt: connection refused by broker")

	// ErrPublishFailed is returned when a publish operation fails.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrSubscribeFailed is returned when a subscribe operation fails.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrInvalidTopic is returned when a topic name or filter is malformed.
	ErrInvalidTopic = errors.New("mqtt: invalid topic")
)
