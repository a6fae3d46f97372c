package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the irrigation console.
// Defaults describe the stock installation; a YAML file and environment
// variables can override them. The value is fixed once Load returns.
type Config struct {
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Console  ConsoleConfig  `yaml:"console"`
	Journal  JournalConfig  `yaml:"journal"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker MQTTBrokerConfig `yaml:"broker"`
	Auth   MQTTAuthConfig   `yaml:"auth"`
	QoS    int              `yaml:"qos"`

	// KeepAlive is the keepalive interval negotiated with the broker (seconds).
	KeepAlive int `yaml:"keepalive"`

	// ConnectTimeout bounds the initial dial and CONNACK wait (seconds).
	ConnectTimeout int `yaml:"connect_timeout"`

	Topics MQTTTopicsConfig `yaml:"topics"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTTopicsConfig names the topics the console works with.
type MQTTTopicsConfig struct {
	// Subscribe is the topic filter subscribed to after a successful handshake.
	Subscribe string `yaml:"subscribe"`

	// Command is the topic operator lines are published to.
	Command string `yaml:"command"`

	// Status is the topic the controller reports its status on.
	Status string `yaml:"status"`
}

// ConsoleConfig contains operator console settings.
type ConsoleConfig struct {
	Prompt   string `yaml:"prompt"`
	Sentinel string `yaml:"sentinel"`

	// PromptDelay is how long the banner waits before the first prompt so
	// connection messages land above it (milliseconds).
	PromptDelay int `yaml:"prompt_delay"`

	// ShowStatus prints a decoded summary under controller status messages.
	ShowStatus bool `yaml:"show_status"`
}

// JournalConfig contains settings for the SQLite message journal.
type JournalConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
	QueueSize   int    `yaml:"queue_size"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load builds the configuration.
//
// The loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values, when path is not empty
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: IRRIGATION_SECTION_KEY
// For example: IRRIGATION_MQTT_HOST, IRRIGATION_JOURNAL_PATH
//
// Parameters:
//   - path: Path to the YAML configuration file, or "" for defaults only
//
// Returns:
//   - Config: Loaded and validated configuration
//   - error: If the file cannot be read, parsed, or validation fails
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the stock configuration: the field controller's broker on
// the local network, the irrigation topic tree and a quiet logger.
func Default() Config {
	return Config{
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host: "192.168.1.21",
				Port: 1883,
			},
			QoS:            0,
			KeepAlive:      60,
			ConnectTimeout: 10,
			Topics: MQTTTopicsConfig{
				Subscribe: "irrigation/#",
				Command:   "irrigation/command",
				Status:    "irrigation/status",
			},
		},
		Console: ConsoleConfig{
			Prompt:      "> ",
			Sentinel:    "q",
			PromptDelay: 1000,
		},
		Journal: JournalConfig{
			Path:        "./data/irrigation-journal.db",
			WALMode:     true,
			BusyTimeout: 5,
			QueueSize:   256,
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	// MQTT
	if v := os.Getenv("IRRIGATION_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("IRRIGATION_MQTT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing IRRIGATION_MQTT_PORT: %w", err)
		}
		cfg.MQTT.Broker.Port = port
	}
	if v := os.Getenv("IRRIGATION_MQTT_CLIENT_ID"); v != "" {
		cfg.MQTT.Broker.ClientID = v
	}
	if v := os.Getenv("IRRIGATION_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("IRRIGATION_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Journal
	if v := os.Getenv("IRRIGATION_JOURNAL_PATH"); v != "" {
		cfg.Journal.Path = v
	}

	// InfluxDB
	if v := os.Getenv("IRRIGATION_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Logging
	if v := os.Getenv("IRRIGATION_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return nil
}

// Validate checks the configuration for errors.
//
// All problems are collected and reported together.
func (c Config) Validate() error {
	var errs []string

	// MQTT validation
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.KeepAlive < 0 {
		errs = append(errs, "mqtt.keepalive cannot be negative")
	}
	if c.MQTT.ConnectTimeout < 0 {
		errs = append(errs, "mqtt.connect_timeout cannot be negative")
	}
	if c.MQTT.Topics.Subscribe == "" {
		errs = append(errs, "mqtt.topics.subscribe is required")
	}
	if c.MQTT.Topics.Command == "" {
		errs = append(errs, "mqtt.topics.command is required")
	} else if strings.ContainsAny(c.MQTT.Topics.Command, "+#") {
		errs = append(errs, "mqtt.topics.command cannot contain wildcards")
	}

	// Console validation
	if c.Console.Sentinel == "" {
		errs = append(errs, "console.sentinel is required")
	}
	if c.Console.PromptDelay < 0 {
		errs = append(errs, "console.prompt_delay cannot be negative")
	}

	// Journal validation
	if c.Journal.Enabled && c.Journal.Path == "" {
		errs = append(errs, "journal.path is required when the journal is enabled")
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Org == "" || c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.org and influxdb.bucket are required when influxdb is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// BrokerAddress returns host:port for display.
func (c MQTTConfig) BrokerAddress() string {
	return fmt.Sprintf("%s:%d", c.Broker.Host, c.Broker.Port)
}

// KeepAliveDuration returns the keepalive interval as a Duration.
func (c MQTTConfig) KeepAliveDuration() time.Duration {
	return time.Duration(c.KeepAlive) * time.Second
}

// ConnectTimeoutDuration returns the connect timeout as a Duration.
func (c MQTTConfig) ConnectTimeoutDuration() time.Duration {
	return time.Duration(c.ConnectTimeout) * time.Second
}

// PromptDelayDuration returns the first-prompt delay as a Duration.
func (c ConsoleConfig) PromptDelayDuration() time.Duration {
	return time.Duration(c.PromptDelay) * time.Millisecond
}
