package journal

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/irrigation-console/internal/infrastructure/config"
)

var testTime = time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

// fakeRepo records entries; when block is set, Create waits on it.
type fakeRepo struct {
	mu        sync.Mutex
	entries   []Entry
	lastLimit int
	createErr error

	started chan struct{}
	block   chan struct{}
}

func (r *fakeRepo) Create(_ context.Context, e *Entry) error {
	if r.started != nil {
		r.started <- struct{}{}
	}
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.entries = append(r.entries, *e)
	return nil
}

func (r *fakeRepo) Recent(_ context.Context, limit int) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLimit = limit
	return append([]Entry(nil), r.entries...), nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func openTestJournal(t *testing.T) *Journal {
	t.Helper()

	j, err := Open(context.Background(), config.JournalConfig{
		Enabled:     true,
		Path:        filepath.Join(t.TempDir(), "journal.db"),
		WALMode:     true,
		BusyTimeout: 5,
		QueueSize:   16,
	}, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { j.Close() }) //nolint:errcheck // Test cleanup
	return j
}

func flush(t *testing.T, j *Journal) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := j.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}

// =============================================================================
// SQLite-backed Tests
// =============================================================================

func TestJournal_RecordAndRecent(t *testing.T) {
	j := openTestJournal(t)

	j.RecordOutbound("irrigation/command", []byte("START"), testTime)
	j.RecordInbound("irrigation/status", []byte(`{"s":2}`), testTime.Add(time.Second))
	j.RecordInbound("irrigation/raw", []byte{0xff, 0xfe, 'x'}, testTime.Add(2*time.Second))
	flush(t, j)

	entries, err := j.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Recent() returned %d entries, want 3", len(entries))
	}

	// Newest first.
	if entries[0].Topic != "irrigation/raw" || !bytes.Equal(entries[0].Payload, []byte{0xff, 0xfe, 'x'}) {
		t.Errorf("entries[0] = %+v, want raw bytes preserved", entries[0])
	}
	if entries[0].Direction != Inbound {
		t.Errorf("entries[0].Direction = %q, want %q", entries[0].Direction, Inbound)
	}
	last := entries[2]
	if last.Direction != Outbound || string(last.Payload) != "START" {
		t.Errorf("entries[2] = %+v, want outbound START", last)
	}
	if !last.RecordedAt.Equal(testTime) {
		t.Errorf("RecordedAt = %v, want %v", last.RecordedAt, testTime)
	}
	if last.ID == "" {
		t.Error("entry ID was not generated")
	}
}

func TestJournal_RecentLimit(t *testing.T) {
	j := openTestJournal(t)

	for i := 0; i < 5; i++ {
		j.RecordOutbound("irrigation/command", []byte("STOP"), testTime.Add(time.Duration(i)*time.Second))
	}
	flush(t, j)

	entries, err := j.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Recent(2) returned %d entries", len(entries))
	}
}

func TestJournal_EmptyPayload(t *testing.T) {
	j := openTestJournal(t)

	j.RecordInbound("irrigation/ping", nil, testTime)
	flush(t, j)

	entries, err := j.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 1 || len(entries[0].Payload) != 0 {
		t.Errorf("entries = %+v, want one empty payload", entries)
	}
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(context.Background(), config.JournalConfig{}, nil)
	if err == nil {
		t.Fatal("Open() with empty path should fail")
	}
}

// =============================================================================
// Queue Tests
// =============================================================================

func TestJournal_DropsWhenFull(t *testing.T) {
	repo := &fakeRepo{
		started: make(chan struct{}, 8),
		block:   make(chan struct{}),
	}
	j := New(repo, Options{QueueSize: 1})

	j.RecordInbound("a", []byte("1"), testTime)
	<-repo.started // writer holds entry 1

	j.RecordInbound("a", []byte("2"), testTime) // queued
	j.RecordInbound("a", []byte("3"), testTime) // dropped

	if got := j.Dropped(); got != 1 {
		t.Errorf("Dropped() = %d, want 1", got)
	}

	close(repo.block)
	if err := j.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := repo.count(); got != 2 {
		t.Errorf("written = %d, want 2", got)
	}
}

func TestJournal_CopiesPayload(t *testing.T) {
	repo := &fakeRepo{}
	j := New(repo, Options{})

	buf := []byte("START")
	j.RecordOutbound("irrigation/command", buf, testTime)
	copy(buf, "XXXXX")

	if err := j.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if string(repo.entries[0].Payload) != "START" {
		t.Errorf("payload = %q, want START", repo.entries[0].Payload)
	}
}

func TestJournal_WriteErrorKeepsRunning(t *testing.T) {
	repo := &fakeRepo{createErr: errors.New("disk full")}
	j := New(repo, Options{})

	j.RecordInbound("a", []byte("1"), testTime)
	j.RecordInbound("a", []byte("2"), testTime)
	flush(t, j)

	if err := j.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestJournal_Close(t *testing.T) {
	repo := &fakeRepo{}
	j := New(repo, Options{})

	if err := j.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := j.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	// Recording after Close is ignored.
	j.RecordInbound("a", []byte("1"), testTime)

	if _, err := j.Recent(context.Background(), 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Recent() after Close error = %v, want ErrClosed", err)
	}
}

func TestJournal_RecentClampsLimit(t *testing.T) {
	tests := []struct {
		limit int
		want  int
	}{
		{0, defaultRecentLimit},
		{-3, defaultRecentLimit},
		{10, 10},
		{maxRecentLimit + 1, maxRecentLimit},
	}

	for _, tt := range tests {
		repo := &fakeRepo{}
		j := New(repo, Options{})

		if _, err := j.Recent(context.Background(), tt.limit); err != nil {
			t.Fatalf("Recent(%d) error = %v", tt.limit, err)
		}
		if repo.lastLimit != tt.want {
			t.Errorf("Recent(%d) queried %d, want %d", tt.limit, repo.lastLimit, tt.want)
		}
		j.Close() //nolint:errcheck // Test cleanup
	}
}
