// Package store provides database access to all raw objects: memory records
// and orchestrated runs.
package store

import (
	"context"

	"github.com/lifepilot/lifepilot/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// Driver is the interface every database driver implements.
type Driver interface {
	GetDB() any
	Close() error

	Migrate(ctx context.Context) error

	CreateMemoryRecord(ctx context.Context, create *MemoryRecord) (*MemoryRecord, error)
	ListMemoryRecords(ctx context.Context, find *FindMemoryRecord) ([]*MemoryRecord, error)
	SearchMemoryRecords(ctx context.Context, opts *VectorSearchOptions) ([]*MemoryRecordWithScore, error)
	// PruneMemoryRecords removes the oldest records beyond keep.
	PruneMemoryRecords(ctx context.Context, keep int) (int64, error)

	CreateRun(ctx context.Context, create *Run) (*Run, error)
	UpdateRun(ctx context.Context, update *Run) (*Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) Close() error {
	return s.driver.Close()
}
