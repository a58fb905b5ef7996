// Package eventstore's sqlitestore.go provides a durable Store backed by
// modernc.org/sqlite, for deployments that need SSE resumption to survive a
// server restart.
package eventstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/richard-senior/mcp/internal/logger"
)

// SQLiteStore persists events to a SQLite database so replay works across
// process restarts, not just within one.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if absent) a SQLite database at path and
// ensures its schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("eventstore: open sqlite store: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS sse_events (
	stream_id TEXT NOT NULL,
	seq       INTEGER NOT NULL,
	event_id  TEXT NOT NULL PRIMARY KEY,
	message   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sse_events_stream_seq ON sse_events(stream_id, seq);
`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("eventstore: create schema: %w", err)
	}

	logger.Info("opened sqlite event store at", path)
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) StoreEvent(ctx context.Context, stream StreamID, message json.RawMessage) (EventID, error) {
	var seq int
	row := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM sse_events WHERE stream_id = ?`, string(stream))
	if err := row.Scan(&seq); err != nil {
		return "", fmt.Errorf("eventstore: next seq: %w", err)
	}

	id := EventID(fmt.Sprintf("%s:%d", stream, seq))
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sse_events (stream_id, seq, event_id, message) VALUES (?, ?, ?, ?)`,
		string(stream), seq, string(id), string(message))
	if err != nil {
		return "", fmt.Errorf("eventstore: store event: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) ReplayAfter(ctx context.Context, lastEventID EventID, send func(EventID, json.RawMessage) error) (StreamID, error) {
	var stream StreamID
	var afterSeq int
	row := s.db.QueryRowContext(ctx, `SELECT stream_id, seq FROM sse_events WHERE event_id = ?`, string(lastEventID))
	var streamStr string
	if err := row.Scan(&streamStr, &afterSeq); err != nil {
		return "", fmt.Errorf("eventstore: unknown event id %q: %w", lastEventID, err)
	}
	stream = StreamID(streamStr)

	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id, message FROM sse_events WHERE stream_id = ? AND seq > ? ORDER BY seq ASC`,
		streamStr, afterSeq)
	if err != nil {
		return stream, fmt.Errorf("eventstore: query replay: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID, message string
		if err := rows.Scan(&eventID, &message); err != nil {
			return stream, fmt.Errorf("eventstore: scan replay row: %w", err)
		}
		if err := send(EventID(eventID), json.RawMessage(message)); err != nil {
			return stream, err
		}
	}
	return stream, rows.Err()
}
