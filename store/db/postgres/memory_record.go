package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/lifepilot/lifepilot/store"
)

func (d *DB) CreateMemoryRecord(ctx context.Context, create *store.MemoryRecord) (*store.MemoryRecord, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}

	stmt := `INSERT INTO memory_record (id, text, embedding, tag, created_ts) VALUES (` + placeholders(5) + `)`
	if _, err := d.db.ExecContext(ctx, stmt,
		create.ID,
		create.Text,
		pgvector.NewVector(create.Embedding),
		create.Tag,
		create.CreatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to insert memory record")
	}
	return create, nil
}

func (d *DB) ListMemoryRecords(ctx context.Context, find *store.FindMemoryRecord) ([]*store.MemoryRecord, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		args = append(args, *find.ID)
		where = append(where, "id = "+placeholder(len(args)))
	}
	if find.Tag != nil {
		args = append(args, *find.Tag)
		where = append(where, "tag = "+placeholder(len(args)))
	}

	query := `SELECT id, text, embedding, tag, created_ts FROM memory_record WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_ts DESC`
	if find.Limit > 0 {
		args = append(args, find.Limit)
		query += " LIMIT " + placeholder(len(args))
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list memory records")
	}
	defer rows.Close()

	list := []*store.MemoryRecord{}
	for rows.Next() {
		record := &store.MemoryRecord{}
		var vector pgvector.Vector
		if err := rows.Scan(&record.ID, &record.Text, &vector, &record.Tag, &record.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan memory record")
		}
		record.Embedding = vector.Slice()
		list = append(list, record)
	}
	return list, rows.Err()
}

// SearchMemoryRecords performs vector similarity search using pgvector.
// The <=> operator computes cosine distance (1 - cosine_similarity), so
// ordering by distance ASC returns the most similar first.
func (d *DB) SearchMemoryRecords(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.MemoryRecordWithScore, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	args := []any{pgvector.NewVector(opts.Vector)}
	where := []string{"1 = 1"}
	if opts.Tag != nil {
		args = append(args, *opts.Tag)
		where = append(where, "tag = "+placeholder(len(args)))
	}
	args = append(args, limit)

	query := `
		SELECT id, text, embedding, tag, created_ts,
			1 - (embedding <=> $1) AS score
		FROM memory_record
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY embedding <=> $1
		LIMIT ` + placeholder(len(args))

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search memory records")
	}
	defer rows.Close()

	list := []*store.MemoryRecordWithScore{}
	for rows.Next() {
		record := &store.MemoryRecord{}
		var vector pgvector.Vector
		var score float32
		if err := rows.Scan(&record.ID, &record.Text, &vector, &record.Tag, &record.CreatedTs, &score); err != nil {
			return nil, errors.Wrap(err, "failed to scan memory record")
		}
		record.Embedding = vector.Slice()
		list = append(list, &store.MemoryRecordWithScore{Record: record, Score: score})
	}
	return list, rows.Err()
}

func (d *DB) PruneMemoryRecords(ctx context.Context, keep int) (int64, error) {
	stmt := `DELETE FROM memory_record WHERE id NOT IN (
		SELECT id FROM memory_record ORDER BY created_ts DESC, id DESC LIMIT $1
	)`
	result, err := d.db.ExecContext(ctx, stmt, keep)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prune memory records")
	}
	return result.RowsAffected()
}
