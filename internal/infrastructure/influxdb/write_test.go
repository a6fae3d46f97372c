package influxdb

import (
	"testing"
	"time"

	"github.com/nerrad567/irrigation-console/internal/irrigation"
)

func TestStatusPoint(t *testing.T) {
	at := time.Date(2026, 5, 1, 6, 30, 0, 0, time.UTC)
	status := irrigation.Status{
		State:       irrigation.StateWatering,
		Moisture:    27.5,
		Temperature: 21,
		Humidity:    55,
		Pump:        1,
		Rain:        0,
	}

	p := statusPoint(status, at)

	if p.Name() != StatusMeasurement {
		t.Errorf("Name() = %q, want %q", p.Name(), StatusMeasurement)
	}
	if !p.Time().Equal(at) {
		t.Errorf("Time() = %v, want %v", p.Time(), at)
	}

	tags := p.TagList()
	if len(tags) != 1 || tags[0].Key != "state_name" || tags[0].Value != "WATERING" {
		t.Errorf("tags = %v, want state_name=WATERING", tags)
	}

	want := map[string]interface{}{
		"state":       int64(2),
		"moisture":    27.5,
		"temperature": 21.0,
		"humidity":    55.0,
		"pump":        int64(1),
		"rain":        int64(0),
	}
	fields := p.FieldList()
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(fields), len(want))
	}
	for _, f := range fields {
		w, ok := want[f.Key]
		if !ok {
			t.Errorf("unexpected field %q", f.Key)
			continue
		}
		if f.Value != w {
			t.Errorf("field %s = %v (%T), want %v (%T)", f.Key, f.Value, f.Value, w, w)
		}
	}
}

func TestStatusPoint_UnknownState(t *testing.T) {
	p := statusPoint(irrigation.Status{State: irrigation.State(9)}, time.Now())

	tags := p.TagList()
	if len(tags) != 1 || tags[0].Value != "UNKNOWN(9)" {
		t.Errorf("tags = %v, want state_name=UNKNOWN(9)", tags)
	}
}

func TestWriteStatus_NotConnected(t *testing.T) {
	c := &Client{}

	// Must be a no-op without a write API.
	c.WriteStatus(irrigation.Status{}, time.Now())
	c.Flush()

	if err := c.Close(); err != nil {
		t.Errorf("Close() on unconnected client error = %v", err)
	}
}
