package mqtt

import (
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/nerrad567/irrigation-console/internal/infrastructure/config"
)

// Connection constants.
const (
	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 250 // milliseconds

	// maxQoS is the maximum QoS level supported.
	maxQoS = 2

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12

	// clientIDPrefix prefixes generated client identifiers.
	clientIDPrefix = "irrigationctl-"

	// clientIDSuffixLen is the number of hex characters taken from a UUID.
	clientIDSuffixLen = 8
)

// buildClientOptions creates paho MQTT options from the console config.
//
// This configures:
//   - Broker URL (tcp:// or ssl:// based on TLS setting)
//   - Client ID (generated when not configured)
//   - Authentication credentials (if provided)
//   - Keepalive and connect timeout
//   - Clean session, no automatic reconnect or connect retry
//   - TLS configuration (if enabled)
func buildClientOptions(cfg config.MQTTConfig) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	scheme := "tcp"
	if cfg.Broker.TLS {
		scheme = "ssl"
	}
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.Broker.Host, cfg.Broker.Port))

	clientID := cfg.Broker.ClientID
	if clientID == "" {
		clientID = generateClientID()
	}
	opts.SetClientID(clientID)

	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}

	opts.SetCleanSession(true)

	// A failed or dropped session is reported, never retried.
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)

	opts.SetKeepAlive(time.Duration(cfg.KeepAlive) * time.Second)
	opts.SetConnectTimeout(cfg.ConnectTimeoutDuration())

	// Deliver messages in arrival order on a single goroutine.
	opts.SetOrderMatters(true)

	if cfg.Broker.TLS {
		opts.SetTLSConfig(&tls.Config{
			MinVersion: tlsMinVersion,
		})
	}

	return opts
}

// generateClientID returns a random client identifier such as
// "irrigationctl-3f9c1a2b".
func generateClientID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return clientIDPrefix + id[:clientIDSuffixLen]
}
