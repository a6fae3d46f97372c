package journal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/irrigation-console/internal/infrastructure/config"
	"github.com/nerrad567/irrigation-console/internal/infrastructure/database"
	"github.com/nerrad567/irrigation-console/internal/infrastructure/logging"
	"github.com/nerrad567/irrigation-console/migrations"
)

const (
	defaultQueueSize = 256
	writeTimeout     = 5 * time.Second

	defaultRecentLimit = 50
	maxRecentLimit     = 1000
)

// Options configures a Journal.
type Options struct {
	// QueueSize bounds the pending entries; 0 uses the default.
	QueueSize int

	// Logger is optional; nil discards.
	Logger *logging.Logger
}

// Journal records console traffic without blocking the caller.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Journal struct {
	repo   Repository
	logger *logging.Logger
	closer io.Closer

	queue   chan Entry
	done    chan struct{}
	dropped atomic.Uint64
	pending atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// New starts a Journal writing to repo.
func New(repo Repository, opts Options) *Journal {
	size := opts.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	j := &Journal{
		repo:   repo,
		logger: logger,
		queue:  make(chan Entry, size),
		done:   make(chan struct{}),
	}
	go j.writer()

	return j
}

// Open opens and migrates the SQLite file named by cfg and starts a
// Journal over it. Close also closes the database.
func Open(ctx context.Context, cfg config.JournalConfig, logger *logging.Logger) (*Journal, error) {
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Path,
		WALMode:     cfg.WALMode,
		BusyTimeout: cfg.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	if err := db.Migrate(ctx, migrations.FS); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("migrating journal: %w", err)
	}

	j := New(NewSQLiteRepository(db.DB), Options{QueueSize: cfg.QueueSize, Logger: logger})
	j.closer = db
	return j, nil
}

// RecordInbound queues a message received from the broker.
func (j *Journal) RecordInbound(topic string, payload []byte, at time.Time) {
	j.enqueue(Inbound, topic, payload, at)
}

// RecordOutbound queues a command published by the console.
func (j *Journal) RecordOutbound(topic string, payload []byte, at time.Time) {
	j.enqueue(Outbound, topic, payload, at)
}

func (j *Journal) enqueue(dir Direction, topic string, payload []byte, at time.Time) {
	e := Entry{
		Direction:  dir,
		Topic:      topic,
		Payload:    bytes.Clone(payload),
		RecordedAt: at.UTC(),
	}

	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return
	}

	j.pending.Add(1)
	select {
	case j.queue <- e:
	default:
		j.pending.Add(-1)
		if n := j.dropped.Add(1); n == 1 || n%100 == 0 {
			j.logger.Warn("journal queue full, dropping entries", "dropped", n)
		}
	}
}

// Dropped returns how many entries were discarded because the queue was full.
func (j *Journal) Dropped() uint64 {
	return j.dropped.Load()
}

// Recent returns up to limit entries, newest first. Entries still queued
// are not included; limit <= 0 uses a default and is capped.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	j.mu.RLock()
	closed := j.closed
	j.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}

	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return j.repo.Recent(ctx, limit)
}

// Flush blocks until every entry queued before the call has been written
// or ctx is done.
func (j *Journal) Flush(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if j.pending.Load() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-j.done:
			return nil
		case <-ticker.C:
		}
	}
}

// Close stops accepting entries, writes what is queued and closes the
// database if the Journal opened it. Safe to call more than once.
func (j *Journal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	close(j.queue)
	j.mu.Unlock()

	<-j.done

	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}

// writer drains the queue until Close.
func (j *Journal) writer() {
	defer close(j.done)

	for e := range j.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := j.repo.Create(ctx, &e); err != nil {
			j.logger.Warn("writing journal entry", "topic", e.Topic, "error", err)
		}
		cancel()
		j.pending.Add(-1)
	}
}
