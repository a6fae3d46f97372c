package irrigation

import "strings"

// Commands the controller acts on. The console publishes whatever the
// operator types; these are listed for the banner hint.
const (
	CommandStart     = "START"
	CommandStop      = "STOP"
	CommandManualOn  = "MANUAL_ON"
	CommandManualOff = "MANUAL_OFF"
)

// KnownCommands returns the commands the controller understands.
func KnownCommands() []string {
	return []string{CommandStart, CommandStop, CommandManualOn, CommandManualOff}
}

// IsKnownCommand reports whether line is exactly one of KnownCommands.
// Controller matching is case-sensitive.
func IsKnownCommand(line string) bool {
	for _, c := range KnownCommands() {
		if line == c {
			return true
		}
	}
	return false
}

// CommandHint renders the known commands for display.
func CommandHint() string {
	return strings.Join(KnownCommands(), ", ")
}
