// Package config handles loading and validating the irrigation console configuration.
//
// This package manages:
//   - Built-in defaults for the field installation (broker, topics, prompt)
//   - An optional YAML file (path from IRRIGATION_CONFIG)
//   - Overrides from IRRIGATION_* environment variables
//   - Validation of every section, reported in one error
//
// Security Considerations:
//   - Broker passwords and InfluxDB tokens belong in environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load(os.Getenv("IRRIGATION_CONFIG"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.MQTT.BrokerAddress())
package config
