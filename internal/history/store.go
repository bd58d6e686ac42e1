package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const eventColumns = "id, operation, root, pid, outcome, launch_id, pid_file, detail, started_at, finished_at"

// DefaultLimit caps Recent when callers pass a non-positive limit.
const DefaultLimit = 20

// Store manages lifecycle history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts ev and returns its id. Zero timestamps default to now.
func (s *Store) Record(ctx context.Context, ev Event) (int64, error) {
	if ev.Operation == "" {
		return 0, errors.New("record event: operation is empty")
	}
	now := time.Now().UTC()
	if ev.FinishedAt.IsZero() {
		ev.FinishedAt = now
	}
	if ev.StartedAt.IsZero() {
		ev.StartedAt = ev.FinishedAt
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO lifecycle_events (
            operation, root, pid, outcome, launch_id, pid_file, detail, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(ev.Operation),
		ev.Root,
		nullableInt(ev.PID),
		ev.Outcome,
		nullableString(ev.LaunchID),
		nullableString(ev.PidFile),
		nullableString(ev.Detail),
		ev.StartedAt.UTC().Format(time.RFC3339Nano),
		ev.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Recent returns the newest events first. An empty root returns events for
// every application.
func (s *Store) Recent(ctx context.Context, root string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	query := "SELECT " + eventColumns + " FROM lifecycle_events"
	args := []any{}
	if root != "" {
		query += " WHERE root = ?"
		args = append(args, root)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// Prune deletes all but the newest keep events and reports how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM lifecycle_events WHERE id NOT IN (SELECT id FROM lifecycle_events ORDER BY id DESC LIMIT ?)",
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return res.RowsAffected()
}

func scanEvent(scanner interface{ Scan(dest ...any) error }) (Event, error) {
	var (
		ev          Event
		operation   string
		pid         sql.NullInt64
		launchID    sql.NullString
		pidFile     sql.NullString
		detail      sql.NullString
		startedRaw  string
		finishedRaw string
	)
	if err := scanner.Scan(
		&ev.ID,
		&operation,
		&ev.Root,
		&pid,
		&ev.Outcome,
		&launchID,
		&pidFile,
		&detail,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return Event{}, fmt.Errorf("scan event: %w", err)
	}
	ev.Operation = Operation(operation)
	ev.PID = int(pid.Int64)
	ev.LaunchID = launchID.String
	ev.PidFile = pidFile.String
	ev.Detail = detail.String
	ev.StartedAt = parseTime(startedRaw)
	ev.FinishedAt = parseTime(finishedRaw)
	return ev, nil
}

func parseTime(raw string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value <= 0 {
		return nil
	}
	return value
}
