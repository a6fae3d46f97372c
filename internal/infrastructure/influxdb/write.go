package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/irrigation-console/internal/irrigation"
)

// StatusMeasurement is the measurement controller reports are written to.
const StatusMeasurement = "irrigation_status"

// WriteStatus records one controller status report at the given time.
// The write is non-blocking; points are batched and sent asynchronously.
//
// Example line protocol:
//
//	irrigation_status,state_name=WATERING humidity=55,moisture=27.5,pump=1i,rain=0i,state=2i,temperature=21
func (c *Client) WriteStatus(status irrigation.Status, at time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(statusPoint(status, at))
}

// statusPoint converts a status report to a point.
func statusPoint(status irrigation.Status, at time.Time) *write.Point {
	return write.NewPoint(
		StatusMeasurement,
		map[string]string{
			"state_name": status.State.String(),
		},
		map[string]interface{}{
			"state":       int64(status.State),
			"moisture":    status.Moisture,
			"temperature": status.Temperature,
			"humidity":    status.Humidity,
			"pump":        int64(status.Pump),
			"rain":        int64(status.Rain),
		},
		at,
	)
}
