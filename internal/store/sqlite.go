package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/me/pcontainer/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteJournal opens (or creates) a SQLite database at dbPath and returns a Journal.
// Use ":memory:" for an in-memory database (the default; nothing survives a restart).
func NewSQLiteJournal(dbPath string, logger *slog.Logger) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Each :memory: connection is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	return &SQLiteJournal{
		db:     db,
		logger: logger.With("component", "journal"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteJournal) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteJournal) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// Record appends one event.
func (s *SQLiteJournal) Record(ctx context.Context, ev model.Event) error {
	if ev.ID == "" {
		ev.ID = "evt_" + uuid.New().String()
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	s.logger.Debug("sql", "op", "insert", "table", "events", "id", ev.ID, "verb", ev.Verb)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, verb, container_id, caller, outcome, status, detail, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, string(ev.Verb), int64(ev.ContainerID), string(ev.Caller),
		string(ev.Outcome), int(ev.Status), ev.Detail, ev.At.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", ev.ID, err)
	}
	return nil
}

// List returns events newest first.
func (s *SQLiteJournal) List(ctx context.Context, opts model.ListOptions) ([]*model.Event, int, error) {
	s.logger.Debug("sql", "op", "list", "table", "events", "limit", opts.Limit, "offset", opts.Offset)
	opts.Clamp()

	// Build WHERE clause dynamically based on filters.
	var whereClauses []string
	var countArgs []any

	if opts.ContainerID != nil {
		whereClauses = append(whereClauses, "container_id = ?")
		countArgs = append(countArgs, int64(*opts.ContainerID))
	}
	if opts.Caller != "" {
		whereClauses = append(whereClauses, "caller = ?")
		countArgs = append(countArgs, opts.Caller)
	}
	if opts.Verb != "" {
		whereClauses = append(whereClauses, "verb = ?")
		countArgs = append(countArgs, string(opts.Verb))
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM events` + whereSQL
	if err := s.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT id, verb, container_id, caller, outcome, status, detail, at
		FROM events` + whereSQL + ` ORDER BY seq DESC LIMIT ? OFFSET ?`
	listArgs := append(countArgs, opts.Limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		var ev model.Event
		var verb, caller, outcome, at string
		var containerID int64
		var status int

		if err := rows.Scan(&ev.ID, &verb, &containerID, &caller, &outcome, &status, &ev.Detail, &at); err != nil {
			return nil, 0, err
		}

		ev.Verb = model.Verb(verb)
		ev.ContainerID = uint64(containerID)
		ev.Caller = model.CallerID(caller)
		ev.Outcome = model.Outcome(outcome)
		ev.Status = model.Status(status)
		ev.At, _ = time.Parse(time.RFC3339Nano, at)

		events = append(events, &ev)
	}
	return events, total, rows.Err()
}
