package irrigation

import "github.com/nerrad567/irrigation-console/internal/infrastructure/config"

// Topics names the controller's command and status topics.
type Topics struct {
	Command string
	Status  string
}

// TopicsFrom returns the topics configured for the broker session.
func TopicsFrom(cfg config.MQTTConfig) Topics {
	return Topics{
		Command: cfg.Topics.Command,
		Status:  cfg.Topics.Status,
	}
}

// IsStatus reports whether topic carries controller status reports.
// An unset status topic matches nothing.
func (t Topics) IsStatus(topic string) bool {
	return t.Status != "" && topic == t.Status
}
