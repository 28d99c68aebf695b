package sqlite

import (
	"context"

	"database/sql"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/lifepilot/lifepilot/internal/profile"
	"github.com/lifepilot/lifepilot/store"
)

// SQLite is the default driver for development and single-user deployments.
// Vectors are stored as BLOBs and similarity is computed in the application
// layer; postgres with pgvector is the production choice.

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the sqlite database at the profile DSN with WAL journaling and
// a single pooled connection, which is optimal for this driver.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	sqliteDB.SetMaxOpenConns(1)
	sqliteDB.SetMaxIdleConns(1)
	sqliteDB.SetConnMaxLifetime(0)
	sqliteDB.SetConnMaxIdleTime(0)

	driver := DB{db: sqliteDB, profile: profile}
	return &driver, nil
}

func (d *DB) GetDB() any {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

var migrationStmts = []string{
	`CREATE TABLE IF NOT EXISTS memory_record (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		embedding BLOB NOT NULL,
		tag TEXT NOT NULL DEFAULT '',
		created_ts BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_memory_record_tag ON memory_record (tag)`,
	`CREATE INDEX IF NOT EXISTS idx_memory_record_created_ts ON memory_record (created_ts)`,
	`CREATE TABLE IF NOT EXISTS run (
		id TEXT PRIMARY KEY,
		state TEXT NOT NULL,
		resume_state TEXT NOT NULL DEFAULT '',
		query TEXT NOT NULL,
		hints TEXT NOT NULL DEFAULT '',
		results TEXT NOT NULL DEFAULT '',
		log TEXT NOT NULL DEFAULT '',
		clarification TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		created_ts BIGINT NOT NULL,
		updated_ts BIGINT NOT NULL
	)`,
}

// Migrate creates the schema. Statements are idempotent.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range migrationStmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to apply migration")
		}
	}
	return nil
}
