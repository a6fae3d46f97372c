package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nerrad567/irrigation-console/internal/irrigation"
)

// maxLineSize bounds a single operator line.
const maxLineSize = 1 << 20

// Exit describes why the input loop ended.
type Exit int

// Input loop exit reasons.
const (
	// ExitQuit: the operator typed the sentinel; the session was disconnected.
	ExitQuit Exit = iota

	// ExitEndOfInput: stdin was exhausted.
	ExitEndOfInput

	// ExitInterrupted: the context was cancelled (Ctrl+C, SIGTERM).
	ExitInterrupted

	// ExitConnectFailed: the broker could not be reached; the loop never ran.
	ExitConnectFailed
)

// String returns a short name for logging.
func (e Exit) String() string {
	switch e {
	case ExitQuit:
		return "quit"
	case ExitEndOfInput:
		return "end_of_input"
	case ExitInterrupted:
		return "interrupted"
	case ExitConnectFailed:
		return "connect_failed"
	default:
		return fmt.Sprintf("exit(%d)", int(e))
	}
}

// Run is the command input loop. It blocks until the sentinel line, end of
// input, or ctx is cancelled.
//
// Non-empty lines are published verbatim to the command topic. An empty
// line only reprints the prompt. The sentinel (case-insensitive) disconnects
// the broker session before returning; end of input and cancellation return
// without disconnecting, leaving shutdown to the caller.
func (s *Session) Run(ctx context.Context, in io.Reader) Exit {
	cc := s.cfg.Console

	s.out.printf("\nEnter commands to publish to '%s' (or '%s' to quit):\n", s.topics.Command, cc.Sentinel)
	s.out.printf("Known commands: %s\n", irrigation.CommandHint())

	if !sleepContext(ctx, cc.PromptDelayDuration()) {
		return s.interrupted()
	}
	s.out.print(cc.Prompt)

	done := make(chan struct{})
	defer close(done)
	reader := newLineReader(in, done)

	sentinel := strings.ToLower(cc.Sentinel)
	for {
		select {
		case <-ctx.Done():
			return s.interrupted()

		case line, ok := <-reader.lines:
			if !ok {
				if err := reader.err; err != nil {
					s.logger.Warn("reading operator input", "error", err)
				}
				return ExitEndOfInput
			}

			if strings.ToLower(line) == sentinel {
				s.out.print("Exiting...\n")
				s.broker.Disconnect()
				return ExitQuit
			}

			if line == "" {
				s.out.print(cc.Prompt)
				continue
			}

			s.publish(line)
		}
	}
}

// publish sends one operator line and echoes the outcome.
func (s *Session) publish(line string) {
	topic := s.topics.Command
	payload := []byte(line)

	if err := s.broker.Publish(topic, payload); err != nil {
		s.out.printf("Publish failed: %v\n%s", err, s.cfg.Console.Prompt)
		return
	}

	s.out.printf("Sent: %s\n%s", line, s.cfg.Console.Prompt)
	if s.recorder != nil {
		s.recorder.RecordOutbound(topic, payload, s.now())
	}
}

func (s *Session) interrupted() Exit {
	s.out.print("\nDisconnecting...\n")
	return ExitInterrupted
}

// lineReader feeds lines from an io.Reader to a channel so the loop can
// also watch for cancellation. The goroutine stays blocked in Read until
// the reader yields; on process exit that is harmless.
type lineReader struct {
	lines chan string
	err   error // valid once lines is closed
}

func newLineReader(in io.Reader, done <-chan struct{}) *lineReader {
	r := &lineReader{lines: make(chan string)}

	go func() {
		defer close(r.lines)

		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
		for scanner.Scan() {
			select {
			case r.lines <- scanner.Text():
			case <-done:
				return
			}
		}
		r.err = scanner.Err()
	}()

	return r
}

// sleepContext waits for d or until ctx is cancelled. It reports whether
// the full duration elapsed.
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
