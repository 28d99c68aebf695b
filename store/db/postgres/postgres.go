package postgres

import (
	"context"
	"database/sql"
	"fmt"

	// Import the Postgres driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/lifepilot/lifepilot/internal/profile"
	"github.com/lifepilot/lifepilot/store"
)

// Postgres is the production driver. Similarity search uses pgvector's
// cosine distance operator; the vector extension must be installed.

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a database with the DSN from the profile.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	db, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	driver := DB{db: db, profile: profile}
	return &driver, nil
}

func (d *DB) GetDB() any {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) migrationStmts() []string {
	return []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS memory_record (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			tag TEXT NOT NULL DEFAULT '',
			created_ts BIGINT NOT NULL
		)`, d.embeddingDimensions()),
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
}

func (d *DB) embeddingDimensions() int {
	if d.profile != nil && d.profile.EmbeddingDimensions > 0 {
		return d.profile.EmbeddingDimensions
	}
	return 1024
}

// Migrate creates the schema. Statements are idempotent.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range d.migrationStmts() {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to apply migration")
		}
	}
	return nil
}

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func placeholders(n int) string {
	list := ""
	for i := 1; i <= n; i++ {
		if i > 1 {
			list += ", "
		}
		list += placeholder(i)
	}
	return list
}
