package store

import (
	"context"

	"github.com/pkg/errors"
)

// Run persists one orchestrated session between requests: the state machine
// must survive a suspend on clarification because the answer arrives as a
// separate request.
type Run struct {
	ID            string
	State         string // RECEIVED, MEAL, SHOPPING, TRAVEL, DONE, AWAITING_CLARIFICATION
	ResumeState   string // stage to resume after a clarification answer
	Query         string
	Hints         string // JSON-encoded agents.Hints
	Results       string // JSON-encoded partial/final results
	Log           string // JSON-encoded session log entries
	Clarification string // pending question, empty unless AWAITING_CLARIFICATION
	Error         string
	CreatedTs     int64
	UpdatedTs     int64
}

// CreateRun persists a new run row.
func (s *Store) CreateRun(ctx context.Context, create *Run) (*Run, error) {
	if create.ID == "" {
		return nil, errors.New("run id is required")
	}
	return s.driver.CreateRun(ctx, create)
}

// UpdateRun persists the current run state.
func (s *Store) UpdateRun(ctx context.Context, update *Run) (*Run, error) {
	return s.driver.UpdateRun(ctx, update)
}

// GetRun fetches a run by id. Returns nil when not found.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	return s.driver.GetRun(ctx, id)
}
