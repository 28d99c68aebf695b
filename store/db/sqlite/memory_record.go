package sqlite

import (
	"context"
	"encoding/binary"
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/lifepilot/lifepilot/store"
)

// Vectors are stored as little-endian float32 BLOBs. Similarity search loads
// candidate rows and computes cosine similarity in Go; SQLite has no native
// vector type.

// float32ArrayToBLOB converts a []float32 to a BLOB.
func float32ArrayToBLOB(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	return buf
}

// blobToFloat32Array converts a BLOB back to a float32 array.
func blobToFloat32Array(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, errors.Errorf("invalid BLOB length: %d", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4 : i*4+4]))
	}
	return vec, nil
}

// cosineSimilarity returns the cosine similarity of two vectors, 0 when
// either has zero norm or dimensions mismatch.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

func (d *DB) CreateMemoryRecord(ctx context.Context, create *store.MemoryRecord) (*store.MemoryRecord, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}

	stmt := `INSERT INTO memory_record (id, text, embedding, tag, created_ts) VALUES (?, ?, ?, ?, ?)`
	if _, err := d.db.ExecContext(ctx, stmt,
		create.ID,
		create.Text,
		float32ArrayToBLOB(create.Embedding),
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
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.Tag != nil {
		where, args = append(where, "tag = ?"), append(args, *find.Tag)
	}

	query := "SELECT id, text, embedding, tag, created_ts FROM memory_record WHERE " +
		joinAnd(where) + " ORDER BY created_ts DESC"
	if find.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list memory records")
	}
	defer rows.Close()

	list := []*store.MemoryRecord{}
	for rows.Next() {
		record := &store.MemoryRecord{}
		var blob []byte
		if err := rows.Scan(&record.ID, &record.Text, &blob, &record.Tag, &record.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan memory record")
		}
		if record.Embedding, err = blobToFloat32Array(blob); err != nil {
			return nil, err
		}
		list = append(list, record)
	}
	return list, rows.Err()
}

func (d *DB) SearchMemoryRecords(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.MemoryRecordWithScore, error) {
	find := &store.FindMemoryRecord{Tag: opts.Tag}
	candidates, err := d.ListMemoryRecords(ctx, find)
	if err != nil {
		return nil, err
	}

	scored := make([]*store.MemoryRecordWithScore, 0, len(candidates))
	for _, record := range candidates {
		scored = append(scored, &store.MemoryRecordWithScore{
			Record: record,
			Score:  cosineSimilarity(opts.Vector, record.Embedding),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > opts.Limit {
		scored = scored[:opts.Limit]
	}
	return scored, nil
}

func (d *DB) PruneMemoryRecords(ctx context.Context, keep int) (int64, error) {
	stmt := `DELETE FROM memory_record WHERE id NOT IN (
		SELECT id FROM memory_record ORDER BY created_ts DESC, id DESC LIMIT ?
	)`
	result, err := d.db.ExecContext(ctx, stmt, keep)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prune memory records")
	}
	return result.RowsAffected()
}

func joinAnd(conds []string) string {
	out := conds[0]
	for _, c := range conds[1:] {
		out += " AND " + c
	}
	return out
}
