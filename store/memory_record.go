package store

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
)

// MemoryRecord is one append-only memory entry: a text snippet plus its
// embedding. Records are never mutated after creation; retention prunes the
// oldest rows once the configured cap is exceeded.
type MemoryRecord struct {
	ID        string
	Text      string
	Embedding []float32
	Tag       string // source agent: meal, shopping, travel
	CreatedTs int64
}

// FindMemoryRecord is the find condition for memory records.
type FindMemoryRecord struct {
	ID    *string
	Tag   *string
	Limit int
}

// MemoryRecordWithScore represents a vector search result with similarity score.
type MemoryRecordWithScore struct {
	Record *MemoryRecord
	Score  float32 // cosine similarity (0-1, higher is more similar)
}

// VectorSearchOptions represents the options for memory vector search.
type VectorSearchOptions struct {
	Vector []float32
	Limit  int
	Tag    *string // optional: filter by source agent
}

// Validate validates the VectorSearchOptions.
func (o *VectorSearchOptions) Validate() error {
	if len(o.Vector) == 0 {
		return errors.New("vector cannot be empty")
	}
	if o.Limit < 0 {
		return errors.Errorf("limit cannot be negative: %d", o.Limit)
	}
	if o.Limit == 0 {
		o.Limit = 10
	}
	if o.Limit > 1000 {
		return errors.Errorf("limit too large (max 1000): %d", o.Limit)
	}
	return nil
}

// CreateMemoryRecord appends a memory record, then applies the retention cap.
func (s *Store) CreateMemoryRecord(ctx context.Context, create *MemoryRecord) (*MemoryRecord, error) {
	if create.ID == "" {
		return nil, errors.New("memory record id is required")
	}
	record, err := s.driver.CreateMemoryRecord(ctx, create)
	if err != nil {
		return nil, err
	}
	if s.profile != nil && s.profile.MemoryMaxRecords > 0 {
		if _, err := s.driver.PruneMemoryRecords(ctx, s.profile.MemoryMaxRecords); err != nil {
			// Retention failure does not invalidate the write.
			slog.Warn("failed to prune memory records", "error", err)
		}
	}
	return record, nil
}

// ListMemoryRecords lists memory records, newest first.
func (s *Store) ListMemoryRecords(ctx context.Context, find *FindMemoryRecord) ([]*MemoryRecord, error) {
	return s.driver.ListMemoryRecords(ctx, find)
}

// SearchMemoryRecords performs similarity search, nearest first.
func (s *Store) SearchMemoryRecords(ctx context.Context, opts *VectorSearchOptions) ([]*MemoryRecordWithScore, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return s.driver.SearchMemoryRecords(ctx, opts)
}
