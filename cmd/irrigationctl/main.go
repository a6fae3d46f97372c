// irrigationctl is an interactive MQTT console for a garden irrigation
// controller.
//
// It connects to the broker, prints every message published under the
// irrigation topics, and publishes each line typed at the prompt as a
// command. Type the sentinel (default "q") to quit.
//
// Configuration is read from the YAML file named by IRRIGATION_CONFIG, if
// set, with IRRIGATION_* environment overrides on top.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/irrigation-console/internal/console"
	"github.com/nerrad567/irrigation-console/internal/infrastructure/config"
	"github.com/nerrad567/irrigation-console/internal/infrastructure/influxdb"
	"github.com/nerrad567/irrigation-console/internal/infrastructure/logging"
	"github.com/nerrad567/irrigation-console/internal/infrastructure/mqtt"
	"github.com/nerrad567/irrigation-console/internal/irrigation"
	"github.com/nerrad567/irrigation-console/internal/journal"
	"github.com/nerrad567/irrigation-console/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run loads configuration and serves one console session. Only
// configuration problems are returned; a broker that cannot be reached is
// reported on out and run still returns nil.
func run(ctx context.Context, in io.Reader, out io.Writer) error {
	configPath := os.Getenv("IRRIGATION_CONFIG")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(cfg.Logging, version)
	log.Info("starting irrigationctl",
		"version", version,
		"commit", commit,
		"build_date", date,
		"config", configPath,
	)

	var recorders []console.Recorder

	if cfg.Journal.Enabled {
		j, jerr := journal.Open(ctx, cfg.Journal, log.With("component", "journal"))
		if jerr != nil {
			log.Warn("journal unavailable, continuing without it", "error", jerr)
		} else {
			defer func() {
				if closeErr := j.Close(); closeErr != nil {
					log.Error("error closing journal", "error", closeErr)
				}
				if n := j.Dropped(); n > 0 {
					log.Warn("journal dropped entries", "dropped", n)
				}
			}()
			recorders = append(recorders, j)
			log.Info("journal opened", "path", cfg.Journal.Path)
		}
	}

	influxClient, err := influxdb.Connect(ctx, cfg.InfluxDB)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
	case err != nil:
		log.Warn("InfluxDB unavailable, continuing without it", "error", err)
	default:
		influxClient.SetOnError(func(writeErr error) {
			log.Warn("InfluxDB write failed", "error", writeErr)
		})
		defer func() {
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		recorders = append(recorders, telemetry.NewStatusRecorder(
			irrigation.TopicsFrom(cfg.MQTT), influxClient, log.With("component", "telemetry")))
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	}

	client := mqtt.New(cfg.MQTT, log.With("component", "mqtt"))
	log.Info("MQTT client created", "broker", cfg.MQTT.BrokerAddress(), "client_id", client.ClientID())

	exit, err := console.Serve(ctx, client, console.Options{
		Config:   cfg,
		Out:      out,
		Recorder: console.Recorders(recorders...),
		Logger:   log.With("component", "console"),
	}, in)
	if err != nil {
		log.Warn("broker connection failed", "error", err)
	}
	log.Info("console stopped", "exit", exit.String())

	return nil
}
