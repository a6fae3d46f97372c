package mqtt

import (
	"fmt"
	"strings"
)

// maxTopicLength is the longest topic the MQTT wire format can carry.
const maxTopicLength = 65535

// ValidateTopic checks a topic name used for publishing.
//
// Topic names must be non-empty, at most 65535 bytes, free of NUL and
// free of the + and # wildcards.
func ValidateTopic(topic string) error {
	if err := validateCommon(topic); err != nil {
		return err
	}
	if strings.ContainsAny(topic, "+#") {
		return fmt.Errorf("%w: %q contains wildcards", ErrInvalidTopic, topic)
	}
	return nil
}

// ValidateFilter checks a topic filter used for subscribing.
//
// Wildcards must occupy a whole level, and # may only be the last level:
//
//	irrigation/#        valid
//	irrigation/+/state  valid
//	irrigation/zone#    invalid
//	irrigation/#/state  invalid
func ValidateFilter(filter string) error {
	if err := validateCommon(filter); err != nil {
		return err
	}

	levels := strings.Split(filter, "/")
	for i, level := range levels {
		switch {
		case level == "#":
			if i != len(levels)-1 {
				return fmt.Errorf("%w: %q has # before the last level", ErrInvalidTopic, filter)
			}
		case level == "+":
		case strings.ContainsAny(level, "+#"):
			return fmt.Errorf("%w: %q has a wildcard inside a level", ErrInvalidTopic, filter)
		}
	}
	return nil
}

func validateCommon(topic string) error {
	if topic == "" {
		return fmt.Errorf("%w: topic cannot be empty", ErrInvalidTopic)
	}
	if len(topic) > maxTopicLength {
		return fmt.Errorf("%w: topic length %d exceeds %d", ErrInvalidTopic, len(topic), maxTopicLength)
	}
	if strings.ContainsRune(topic, 0) {
		return fmt.Errorf("%w: topic contains NUL", ErrInvalidTopic)
	}
	return nil
}
