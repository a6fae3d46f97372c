package console

import (
	"bytes"
	"sync"
	"time"

	"github.com/nerrad567/irrigation-console/internal/infrastructure/config"
	"github.com/nerrad567/irrigation-console/internal/infrastructure/mqtt"
)

// testConfig returns the stock configuration without the first-prompt delay.
func testConfig() config.Config {
	cfg := config.Default()
	cfg.Console.PromptDelay = 0
	return cfg
}

type publishCall struct {
	topic   string
	payload string
}

// fakeBroker records every call the console makes.
type fakeBroker struct {
	mu           sync.Mutex
	subscribes   []string
	publishes    []publishCall
	disconnects  int
	subscribeErr error
	publishErr   error
}

func (b *fakeBroker) Subscribe(filter string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subscribeErr != nil {
		return b.subscribeErr
	}
	b.subscribes = append(b.subscribes, filter)
	return nil
}

func (b *fakeBroker) Publish(topic string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.publishErr != nil {
		return b.publishErr
	}
	b.publishes = append(b.publishes, publishCall{topic: topic, payload: string(payload)})
	return nil
}

func (b *fakeBroker) Disconnect() {
	b.mu.Lock()
	b.disconnects++
	b.mu.Unlock()
}

func (b *fakeBroker) snapshot() (subs []string, pubs []publishCall, disconnects int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.subscribes...), append([]publishCall(nil), b.publishes...), b.disconnects
}

// fakeConnection adds the lifecycle half of the MQTT client to fakeBroker.
// connectCode, when set, is delivered to the connect handler from Connect.
type fakeConnection struct {
	fakeBroker
	connectErr  error
	connectCode *byte
	onConnect   mqtt.ConnectHandler
	onMessage   mqtt.MessageHandler
	connects    int
	closes      int
}

func (c *fakeConnection) SetConnectHandler(h mqtt.ConnectHandler) { c.onConnect = h }
func (c *fakeConnection) SetMessageHandler(h mqtt.MessageHandler) { c.onMessage = h }

func (c *fakeConnection) Connect() error {
	c.connects++
	if c.connectErr != nil {
		return c.connectErr
	}
	if c.connectCode != nil && c.onConnect != nil {
		c.onConnect.OnConnect(*c.connectCode)
	}
	return nil
}

func (c *fakeConnection) Close() error {
	c.mu.Lock()
	c.closes++
	c.mu.Unlock()
	return nil
}

func codePtr(b byte) *byte { return &b }

// syncBuffer is a bytes.Buffer safe to read while a session writes to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// recordingRecorder captures recorder calls.
type recordingRecorder struct {
	mu       sync.Mutex
	inbound  []publishCall
	outbound []publishCall
}

func (r *recordingRecorder) RecordInbound(topic string, payload []byte, _ time.Time) {
	r.mu.Lock()
	r.inbound = append(r.inbound, publishCall{topic: topic, payload: string(payload)})
	r.mu.Unlock()
}

func (r *recordingRecorder) RecordOutbound(topic string, payload []byte, _ time.Time) {
	r.mu.Lock()
	r.outbound = append(r.outbound, publishCall{topic: topic, payload: string(payload)})
	r.mu.Unlock()
}

var testTime = time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
