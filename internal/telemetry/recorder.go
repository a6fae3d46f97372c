// Package telemetry forwards controller status reports seen by the
// console to a time-series writer.
package telemetry

import (
	"time"

	"github.com/nerrad567/irrigation-console/internal/infrastructure/logging"
	"github.com/nerrad567/irrigation-console/internal/irrigation"
)

// StatusWriter stores a parsed status report. *influxdb.Client satisfies it.
type StatusWriter interface {
	WriteStatus(status irrigation.Status, at time.Time)
}

// StatusRecorder implements console.Recorder. Inbound messages on the
// status topic that parse as a status report are written; everything else
// is ignored.
type StatusRecorder struct {
	topics irrigation.Topics
	writer StatusWriter
	logger *logging.Logger
}

// NewStatusRecorder creates a recorder for the status topic of topics.
// logger may be nil.
func NewStatusRecorder(topics irrigation.Topics, writer StatusWriter, logger *logging.Logger) *StatusRecorder {
	if logger == nil {
		logger = logging.Discard()
	}
	return &StatusRecorder{topics: topics, writer: writer, logger: logger}
}

// RecordInbound writes the message if it is a status report.
func (r *StatusRecorder) RecordInbound(topic string, payload []byte, at time.Time) {
	if !r.topics.IsStatus(topic) {
		return
	}

	status, err := irrigation.ParseStatus(payload)
	if err != nil {
		r.logger.Debug("skipping status telemetry", "topic", topic, "error", err)
		return
	}
	r.writer.WriteStatus(status, at)
}

// RecordOutbound is a no-op: commands carry no telemetry.
func (r *StatusRecorder) RecordOutbound(string, []byte, time.Time) {}
