// Package influxdb records irrigation controller status reports in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library: Connect verifies the
// server with a ping and sets up the batched, non-blocking write API;
// WriteStatus turns an irrigation.Status into one point of the
// irrigation_status measurement.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // recording is optional
//	}
//	defer client.Close()
//
//	client.WriteStatus(status, time.Now())
//
// # Error Handling
//
// Connection and health check errors are returned directly. Write errors
// arrive asynchronously through SetOnError.
package influxdb
