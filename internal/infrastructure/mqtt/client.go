package mqtt

import (
	"context"
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/eclipse/paho.mqtt.golang/packets"

	"github.com/nerrad567/irrigation-console/internal/infrastructure/config"
)

// Client wraps paho.mqtt.golang as the console's single broker session.
//
// paho runs the network I/O on its own goroutines once Connect succeeds;
// handlers registered here are invoked from those goroutines.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
//     The input loop publishes while paho's goroutines deliver messages.
type Client struct {
	client  pahomqtt.Client
	options *pahomqtt.ClientOptions
	cfg     config.MQTTConfig

	// subscriptions tracks filters subscribed during this session.
	subscriptions map[string]struct{}
	subMu         sync.RWMutex

	connected bool
	connMu    sync.RWMutex

	onConnect  ConnectHandler
	onMessage  MessageHandler
	handlerMu  sync.RWMutex
	disconnect sync.Once

	logger Logger
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Message is a single inbound publication.
type Message struct {
	Topic   string
	Payload []byte
}

// ConnectHandler is notified of every connection attempt outcome.
//
// code is the CONNACK return code: 0 on success, 1-5 when the broker
// refused the session.
type ConnectHandler interface {
	OnConnect(code byte)
}

// MessageHandler receives every message delivered on the session.
//
// OnMessage runs on paho's delivery goroutine and must not block.
type MessageHandler interface {
	OnMessage(msg Message)
}

// ConnectHandlerFunc adapts a function to ConnectHandler.
type ConnectHandlerFunc func(code byte)

// OnConnect implements ConnectHandler.
func (f ConnectHandlerFunc) OnConnect(code byte) { f(code) }

// MessageHandlerFunc adapts a function to MessageHandler.
type MessageHandlerFunc func(msg Message)

// OnMessage implements MessageHandler.
func (f MessageHandlerFunc) OnMessage(msg Message) { f(msg) }

// New creates an unconnected client for the configured broker.
//
// Handlers should be registered with SetConnectHandler and
// SetMessageHandler before Connect is called.
func New(cfg config.MQTTConfig, logger Logger) *Client {
	c := &Client{
		cfg:           cfg,
		options:       buildClientOptions(cfg),
		subscriptions: make(map[string]struct{}),
		logger:        logger,
	}

	c.options.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.handleConnect()
	})
	c.options.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.handleConnectionLost(err)
	})
	c.options.SetDefaultPublishHandler(func(_ pahomqtt.Client, msg pahomqtt.Message) {
		c.dispatchMessage(msg.Topic(), msg.Payload())
	})

	c.client = pahomqtt.NewClient(c.options)
	return c
}

// ClientID returns the identifier presented to the broker.
func (c *Client) ClientID() string {
	return c.options.ClientID
}

// SetConnectHandler registers the connection outcome handler.
func (c *Client) SetConnectHandler(h ConnectHandler) {
	c.handlerMu.Lock()
	c.onConnect = h
	c.handlerMu.Unlock()
}

// SetMessageHandler registers the inbound message handler.
func (c *Client) SetMessageHandler(h MessageHandler) {
	c.handlerMu.Lock()
	c.onMessage = h
	c.handlerMu.Unlock()
}

// Connect opens the session and starts paho's network goroutines.
//
// Outcomes:
//   - Accepted: returns nil; the ConnectHandler receives 0 from paho's goroutine.
//   - Refused by the broker (CONNACK 1-5): returns nil; the ConnectHandler
//     receives the refusal code. The session stays unsubscribed.
//   - Broker unreachable or handshake timeout: returns ErrConnectionFailed.
func (c *Client) Connect() error {
	token := c.client.Connect()

	timeout := c.cfg.ConnectTimeoutDuration()
	if timeout > 0 {
		// paho bounds the dial by the same timeout; the extra margin covers CONNACK.
		if !token.WaitTimeout(2 * timeout) {
			return fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, 2*timeout)
		}
	} else {
		token.Wait()
	}

	var code byte
	if ct, ok := token.(*pahomqtt.ConnectToken); ok {
		code = ct.ReturnCode()
	}

	refused, err := connectOutcome(code, token.Error())
	if err != nil {
		return err
	}

	if refused {
		c.logWarn("broker refused connection",
			"broker", c.cfg.BrokerAddress(),
			"error", fmt.Errorf("%w: return code %d", ErrConnectionRefused, code),
		)
		c.dispatchConnect(code)
		return nil
	}

	// paho's OnConnect callback runs asynchronously; record the state here
	// so IsConnected is accurate as soon as Connect returns.
	c.setConnected(true)
	return nil
}

// connectOutcome classifies the result of a connect token.
func connectOutcome(code byte, err error) (refused bool, _ error) {
	if err == nil {
		return false, nil
	}
	if code >= packets.ErrRefusedBadProtocolVersion && code <= packets.ErrRefusedNotAuthorised {
		return true, nil
	}
	return false, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
}

// handleConnect is called by paho when the session is accepted.
func (c *Client) handleConnect() {
	c.setConnected(true)
	if c.logger != nil {
		c.logger.Info("mqtt connected", "broker", c.cfg.BrokerAddress(), "client_id", c.ClientID())
	}
	c.dispatchConnect(packets.Accepted)
}

// handleConnectionLost is called by paho when an established session drops.
func (c *Client) handleConnectionLost(err error) {
	c.setConnected(false)
	c.logWarn("mqtt connection lost", "broker", c.cfg.BrokerAddress(), "error", err)
}

func (c *Client) dispatchConnect(code byte) {
	c.handlerMu.RLock()
	h := c.onConnect
	c.handlerMu.RUnlock()
	if h == nil {
		return
	}

	defer c.recoverHandler("connect")
	h.OnConnect(code)
}

func (c *Client) dispatchMessage(topic string, payload []byte) {
	c.handlerMu.RLock()
	h := c.onMessage
	c.handlerMu.RUnlock()
	if h == nil {
		return
	}

	defer c.recoverHandler(topic)
	h.OnMessage(Message{Topic: topic, Payload: payload})
}

// recoverHandler keeps a panicking handler from killing paho's goroutine.
func (c *Client) recoverHandler(source string) {
	if r := recover(); r != nil && c.logger != nil {
		c.logger.Error("MQTT handler panic recovered",
			"source", source,
			"panic", r,
		)
	}
}

// Disconnect ends the session gracefully. Only the first call reaches the
// broker; later calls return immediately.
func (c *Client) Disconnect() {
	if c.client == nil {
		return
	}
	c.disconnect.Do(func() {
		c.client.Disconnect(defaultDisconnectQuiesce)
		c.setConnected(false)
	})
}

// Close stops paho's network goroutines and releases the session.
//
// Returns:
//   - error: always nil; an already closed session is not an error
func (c *Client) Close() error {
	c.Disconnect()
	return nil
}

// HealthCheck verifies the MQTT connection is alive.
func (c *Client) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("mqtt health check: %w", ctx.Err())
	default:
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	return nil
}

// IsConnected returns the current connection state.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected && c.client != nil && c.client.IsConnected()
}

func (c *Client) setConnected(v bool) {
	c.connMu.Lock()
	c.connected = v
	c.connMu.Unlock()
}

func (c *Client) logWarn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
