package irrigation

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidStatus is returned when a payload is not a controller status report.
var ErrInvalidStatus = errors.New("irrigation: invalid status report")

// State is the controller's state machine state.
type State int

// Controller states, in the order the controller numbers them.
const (
	StateIdle State = iota
	StateMonitoring
	StateWatering
	StateWaiting
	StateError
	StateManual
)

var stateNames = [...]string{
	StateIdle:       "IDLE",
	StateMonitoring: "MONITORING",
	StateWatering:   "WATERING",
	StateWaiting:    "WAITING",
	StateError:      "ERROR",
	StateManual:     "MANUAL",
}

// String returns the controller's name for the state.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
	return stateNames[s]
}

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	return s >= 0 && int(s) < len(stateNames)
}

// Status is the compact report the controller publishes periodically:
//
//	{"s":2,"m":27.5,"t":21.0,"h":55.0,"p":1,"r":0}
type Status struct {
	State       State   `json:"s"`
	Moisture    float64 `json:"m"`
	Temperature float64 `json:"t"`
	Humidity    float64 `json:"h"`
	Pump        int     `json:"p"`
	Rain        int     `json:"r"`
}

// statusWire marks which keys were present so partial objects are rejected.
type statusWire struct {
	State       *int     `json:"s"`
	Moisture    *float64 `json:"m"`
	Temperature *float64 `json:"t"`
	Humidity    *float64 `json:"h"`
	Pump        *int     `json:"p"`
	Rain        *int     `json:"r"`
}

// ParseStatus decodes a status report. All six keys must be present.
func ParseStatus(payload []byte) (Status, error) {
	var w statusWire
	if err := json.Unmarshal(payload, &w); err != nil {
		return Status{}, fmt.Errorf("%w: %w", ErrInvalidStatus, err)
	}
	if w.State == nil || w.Moisture == nil || w.Temperature == nil ||
		w.Humidity == nil || w.Pump == nil || w.Rain == nil {
		return Status{}, fmt.Errorf("%w: missing fields", ErrInvalidStatus)
	}

	return Status{
		State:       State(*w.State),
		Moisture:    *w.Moisture,
		Temperature: *w.Temperature,
		Humidity:    *w.Humidity,
		Pump:        *w.Pump,
		Rain:        *w.Rain,
	}, nil
}

// PumpOn reports whether the pump is running.
func (s Status) PumpOn() bool { return s.Pump != 0 }

// Raining reports whether the rain sensor is wet.
func (s Status) Raining() bool { return s.Rain != 0 }

// Summary renders the report as one human-readable line.
func (s Status) Summary() string {
	return fmt.Sprintf("state=%s moisture=%.1f%% temp=%.1fC humidity=%.1f%% pump=%s rain=%s",
		s.State, s.Moisture, s.Temperature, s.Humidity, onOff(s.PumpOn()), yesNo(s.Raining()))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
