// Package journal keeps a local SQLite record of console traffic: the
// messages received on the subscription and the commands published.
//
// Recording never blocks the caller. Entries go onto a bounded queue
// drained by a single writer goroutine; when the queue is full the entry
// is dropped and counted.
package journal
