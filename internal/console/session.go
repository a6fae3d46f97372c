package console

import (
	"io"
	"strings"
	"time"

	"github.com/nerrad567/irrigation-console/internal/infrastructure/config"
	"github.com/nerrad567/irrigation-console/internal/infrastructure/logging"
	"github.com/nerrad567/irrigation-console/internal/infrastructure/mqtt"
	"github.com/nerrad567/irrigation-console/internal/irrigation"
)

// Broker is the subset of the broker session the console drives.
// Implementations must be safe for concurrent use: Subscribe is called from
// the connect callback while Publish is called from the input loop.
type Broker interface {
	Subscribe(filter string) error
	Publish(topic string, payload []byte) error
	Disconnect()
}

// Recorder receives a copy of console traffic. Calls are made on the MQTT
// delivery goroutine and on the input loop, so implementations must not block.
type Recorder interface {
	RecordInbound(topic string, payload []byte, at time.Time)
	RecordOutbound(topic string, payload []byte, at time.Time)
}

// Options configures a Session.
type Options struct {
	// Config is the loaded configuration; only the MQTT and Console
	// sections are read.
	Config config.Config

	// Broker is the session used for subscribe, publish and disconnect.
	Broker Broker

	// Out receives all operator-facing text.
	Out io.Writer

	// Recorder is optional.
	Recorder Recorder

	// Logger is optional; nil discards.
	Logger *logging.Logger
}

// Session implements the connect handler, the message listener and the
// command input loop over one broker session.
type Session struct {
	cfg      config.Config
	topics   irrigation.Topics
	broker   Broker
	out      *printer
	recorder Recorder
	logger   *logging.Logger
	now      func() time.Time
}

// New creates a Session from opts.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	return &Session{
		cfg:      opts.Config,
		topics:   irrigation.TopicsFrom(opts.Config.MQTT),
		broker:   opts.Broker,
		out:      &printer{w: out},
		recorder: opts.Recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// OnConnect implements mqtt.ConnectHandler.
//
// Code 0 subscribes to the configured filter. Any other code is reported
// and nothing else happens: the session is not retried.
func (s *Session) OnConnect(code byte) {
	if code != 0 {
		s.out.printf("Failed to connect, return code %d\n", code)
		return
	}

	filter := s.cfg.MQTT.Topics.Subscribe
	s.out.printf("Connected to MQTT Broker at %s\n", s.cfg.MQTT.Broker.Host)

	if err := s.broker.Subscribe(filter); err != nil {
		s.out.printf("Failed to subscribe to %s: %v\n", filter, err)
		return
	}
	s.out.printf("Subscribed to topic: %s\n", filter)
}

// OnMessage implements mqtt.MessageHandler.
//
// A payload that fails to decode is reported and dropped; it never stops
// the listener.
func (s *Session) OnMessage(msg mqtt.Message) {
	at := s.now()

	text, err := Decode(msg.Payload)
	if err != nil {
		s.out.printf("\nError decoding message: %v\n", err)
		s.record(msg.Topic, msg.Payload, at)
		return
	}

	var b strings.Builder
	b.WriteString("\nReceived [")
	b.WriteString(msg.Topic)
	b.WriteString("]: ")
	b.WriteString(text)
	b.WriteString("\n")

	if s.cfg.Console.ShowStatus && s.topics.IsStatus(msg.Topic) {
		if status, err := irrigation.ParseStatus(msg.Payload); err == nil {
			b.WriteString("  ")
			b.WriteString(status.Summary())
			b.WriteString("\n")
		}
	}

	b.WriteString(s.cfg.Console.Prompt)
	s.out.print(b.String())

	s.record(msg.Topic, msg.Payload, at)
}

func (s *Session) record(topic string, payload []byte, at time.Time) {
	if s.recorder != nil {
		s.recorder.RecordInbound(topic, payload, at)
	}
}
