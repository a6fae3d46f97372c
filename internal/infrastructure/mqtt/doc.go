// Package mqtt provides the console's broker session.
//
// It wraps github.com/eclipse/paho.mqtt.golang, which implements the wire
// protocol, keepalive and QoS handling. This package adds:
//   - Configuration mapping (broker URL, credentials, keepalive, TLS)
//   - Two callback registration points: ConnectHandler and MessageHandler
//   - Classification of connect outcomes (accepted, refused, unreachable)
//   - Topic and filter validation before anything reaches the broker
//   - A disconnect that reaches the broker at most once
//
// # Policy
//
// The session is never retried. A broker that refuses the CONNECT is
// reported through ConnectHandler and left alone; an unreachable broker makes
// Connect return ErrConnectionFailed. Automatic reconnect is disabled.
//
// # Usage
//
//	client := mqtt.New(cfg.MQTT, logger)
//	client.SetConnectHandler(session)
//	client.SetMessageHandler(session)
//	if err := client.Connect(); err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err := client.Publish("irrigation/command", []byte("START"))
package mqtt
