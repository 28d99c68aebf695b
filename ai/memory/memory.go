// Package memory provides the cross-session memory service: append-only
// text snippets with embeddings, retrieved by similarity.
package memory

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/lifepilot/lifepilot/ai/core/embedding"
	"github.com/lifepilot/lifepilot/store"
)

// Record is a retrieved memory entry.
type Record struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Tag       string    `json:"tag"`
	Score     float32   `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// Service is the memory interface agents consume.
type Service interface {
	// Store embeds text and appends it as an immutable record. Returns the
	// record id.
	Store(ctx context.Context, text, tag string) (string, error)

	// Retrieve returns the k nearest records for the query, nearest first.
	// When the embedding backend or the memory store is unavailable it
	// returns an empty slice: retrieval degrades, it never fails a run.
	Retrieve(ctx context.Context, query string, k int) ([]Record, error)
}

type service struct {
	embedder embedding.Service
	store    *store.Store
}

// NewService creates a memory service over the given embedder and store.
func NewService(embedder embedding.Service, st *store.Store) Service {
	return &service{embedder: embedder, store: st}
}

func (s *service) Store(ctx context.Context, text, tag string) (string, error) {
	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return "", err
	}

	record, err := s.store.CreateMemoryRecord(ctx, &store.MemoryRecord{
		ID:        shortuuid.New(),
		Text:      text,
		Embedding: vector,
		Tag:       tag,
	})
	if err != nil {
		return "", err
	}

	slog.Debug("memory: record stored", "id", record.ID, "tag", tag, "text_length", len(text))
	return record.ID, nil
}

func (s *service) Retrieve(ctx context.Context, query string, k int) ([]Record, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		if errors.Is(err, embedding.ErrServiceUnavailable) {
			slog.Warn("memory: embedding backend unavailable, retrieval degraded to empty", "error", err)
			return []Record{}, nil
		}
		return nil, err
	}

	results, err := s.store.SearchMemoryRecords(ctx, &store.VectorSearchOptions{
		Vector: vector,
		Limit:  k,
	})
	if err != nil {
		slog.Warn("memory: store search failed, retrieval degraded to empty", "error", err)
		return []Record{}, nil
	}

	records := make([]Record, 0, len(results))
	for _, r := range results {
		records = append(records, Record{
			ID:        r.Record.ID,
			Text:      r.Record.Text,
			Tag:       r.Record.Tag,
			Score:     r.Score,
			Timestamp: time.Unix(r.Record.CreatedTs, 0),
		})
	}
	return records, nil
}
