package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"
)

type SQLiteDB struct {
	db    *sql.DB
	clock clockwork.Clock
}

type Option func(*SQLiteDB)

func WithClock(c clockwork.Clock) Option {
	return func(s *SQLiteDB) { s.clock = c }
}

func NewSQLiteDB(path string, opts ...Option) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// One connection: SQLite serializes writers anyway, and ":memory:" is
	// private to the connection that created it.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db:    db,
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS incident_reports (
			id TEXT PRIMARY KEY,
			city TEXT NOT NULL,
			industry TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			description TEXT NOT NULL,
			reporter_name TEXT NOT NULL DEFAULT '',
			reporter_contact TEXT NOT NULL DEFAULT '',
			latitude REAL NOT NULL DEFAULT 0,
			longitude REAL NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_incident_reports_created_at ON incident_reports(created_at);
		CREATE INDEX IF NOT EXISTS idx_incident_reports_status ON incident_reports(status);
		CREATE INDEX IF NOT EXISTS idx_incident_reports_city ON incident_reports(city COLLATE NOCASE);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
