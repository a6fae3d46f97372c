package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Direction says which way a journalled message travelled.
type Direction string

// Message directions, as stored.
const (
	Inbound  Direction = "in"
	Outbound Direction = "out"
)

// Entry is one journalled message. Payload is stored as raw bytes, so
// payloads that are not valid UTF-8 survive unchanged.
type Entry struct {
	ID         string
	Direction  Direction
	Topic      string
	Payload    []byte
	RecordedAt time.Time
}

// Repository persists journal entries.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// SQLiteRepository stores entries in the messages table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a repository over an open, migrated database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts an entry. The ID and RecordedAt are generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = "msg-" + uuid.NewString()
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}
	payload := e.Payload
	if payload == nil {
		payload = []byte{}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, direction, topic, payload, recorded_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, string(e.Direction), e.Topic, payload, e.RecordedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("inserting journal entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, direction, topic, payload, recorded_at FROM messages
		 ORDER BY recorded_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var direction string
		var recordedAt int64
		if err := rows.Scan(&e.ID, &direction, &e.Topic, &e.Payload, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		e.Direction = Direction(direction)
		e.RecordedAt = time.Unix(0, recordedAt).UTC()
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal: %w", err)
	}
	return entries, nil
}
