package mqtt

import (
	"fmt"
)

// Subscribe requests delivery of messages matching filter.
//
// Matching messages are routed to the registered MessageHandler. Filters may
// contain MQTT wildcards:
//   - + (single-level): "irrigation/+/moisture"
//   - # (multi-level): "irrigation/#"
//
// Returns:
//   - error: ErrInvalidTopic for a malformed filter, ErrNotConnected when
//     there is no session, or ErrSubscribeFailed wrapping the broker error
func (c *Client) Subscribe(filter string) error {
	if err := ValidateFilter(filter); err != nil {
		return err
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	// A nil callback routes matches to the default publish handler.
	token := c.client.Subscribe(filter, c.qos(), nil)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	c.subMu.Lock()
	c.subscriptions[filter] = struct{}{}
	c.subMu.Unlock()

	return nil
}

// SubscriptionCount returns the number of filters subscribed this session.
func (c *Client) SubscriptionCount() int {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	return len(c.subscriptions)
}

// HasSubscription checks if filter was subscribed this session.
//
// Note: This checks only the exact filter string, not pattern matching.
func (c *Client) HasSubscription(filter string) bool {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	_, exists := c.subscriptions[filter]
	return exists
}
