// Package console is the operator-facing side of the irrigation console.
//
// A Session plays three roles:
//   - Connection handler: subscribes to the irrigation topic tree once the
//     broker accepts the session, or reports the refusal code.
//   - Message listener: prints each inbound message with its topic and
//     restores the prompt. Payloads that are not valid UTF-8 are reported
//     and skipped.
//   - Input loop: reads operator lines and publishes each non-empty one
//     verbatim to the command topic until the sentinel line, end of input,
//     or an interrupt.
//
// Serve wires a Session to a broker connection and runs the whole
// lifecycle: connect, run the input loop, close.
//
// The listener runs on the MQTT client's delivery goroutine while the input
// loop runs on the caller's goroutine. The only state they share is the
// output writer, whose writes are serialised; the broker connection must be
// safe for concurrent use on its own.
package console
