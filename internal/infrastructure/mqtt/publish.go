package mqtt

import (
	"fmt"
)

// Maximum payload size for MQTT messages (1MB).
const maxPayloadSize = 1 << 20

// Publish sends payload to topic with the configured QoS, not retained.
//
// There is no application deadline: the call returns when paho reports the
// publish complete. Publishing before the handshake completes, or after the
// session is gone, fails with paho's not-connected error wrapped in
// ErrPublishFailed.
//
// Example:
//
//	err := client.Publish("irrigation/command", []byte("START"))
func (c *Client) Publish(topic string, payload []byte) error {
	if err := ValidateTopic(topic); err != nil {
		return err
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	token := c.client.Publish(topic, c.qos(), false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// PublishString is a convenience method that publishes a string payload.
func (c *Client) PublishString(topic string, payload string) error {
	return c.Publish(topic, []byte(payload))
}

// qos returns the configured QoS clamped to the valid range.
func (c *Client) qos() byte {
	q := c.cfg.QoS
	if q < 0 {
		q = 0
	}
	if q > maxQoS {
		q = maxQoS
	}
	return byte(q) // #nosec G115 -- clamped to 0..2 above
}
