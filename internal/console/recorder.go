package console

import "time"

// MultiRecorder fans traffic out to several recorders in order.
type MultiRecorder []Recorder

// RecordInbound implements Recorder.
func (m MultiRecorder) RecordInbound(topic string, payload []byte, at time.Time) {
	for _, r := range m {
		r.RecordInbound(topic, payload, at)
	}
}

// RecordOutbound implements Recorder.
func (m MultiRecorder) RecordOutbound(topic string, payload []byte, at time.Time) {
	for _, r := range m {
		r.RecordOutbound(topic, payload, at)
	}
}

// Recorders combines rs, skipping nils. It returns nil when nothing is left.
func Recorders(rs ...Recorder) Recorder {
	var m MultiRecorder
	for _, r := range rs {
		if r != nil {
			m = append(m, r)
		}
	}
	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	default:
		return m
	}
}
