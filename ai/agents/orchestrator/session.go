package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lifepilot/lifepilot/ai/agents"
	"github.com/lifepilot/lifepilot/store"
)

// session is the in-memory state of one run while it executes.
type session struct {
	id      string
	query   string
	hints   agents.Hints
	log     *agents.SessionLog
	res     results
	started time.Time
}

// results holds whatever the completed stages produced so far.
type results struct {
	Meal     *agents.MealPlan     `json:"meal,omitempty"`
	Shopping *agents.ShoppingList `json:"shopping,omitempty"`
	Travel   *agents.Itinerary    `json:"travel,omitempty"`
}

// finalStatus derives the run status: partial when any stage degraded.
func (s *session) finalStatus() string {
	if (s.res.Meal != nil && s.res.Meal.Fallback) ||
		(s.res.Shopping != nil && s.res.Shopping.Partial) ||
		(s.res.Travel != nil && s.res.Travel.OverBudget) {
		return StatusPartial
	}
	return StatusOK
}

// persist writes the run row after a state transition.
func (o *Orchestrator) persist(ctx context.Context, s *session, state, resumeState string, clarification *agents.ClarificationError, errMsg string) error {
	row, err := encodeRun(s, state)
	if err != nil {
		return err
	}
	row.ResumeState = resumeState
	row.Error = errMsg
	if clarification != nil {
		row.Clarification = clarification.Question
	}
	if _, err := o.store.UpdateRun(ctx, row); err != nil {
		return fmt.Errorf("persist run state %s: %w", state, err)
	}
	return nil
}

// encodeRun serializes a session into its store row.
func encodeRun(s *session, state string) (*store.Run, error) {
	hints, err := json.Marshal(s.hints)
	if err != nil {
		return nil, fmt.Errorf("encode hints: %w", err)
	}
	res, err := json.Marshal(s.res)
	if err != nil {
		return nil, fmt.Errorf("encode results: %w", err)
	}
	log, err := json.Marshal(s.log.Entries())
	if err != nil {
		return nil, fmt.Errorf("encode log: %w", err)
	}

	return &store.Run{
		ID:      s.id,
		State:   state,
		Query:   s.query,
		Hints:   string(hints),
		Results: string(res),
		Log:     string(log),
	}, nil
}

// decodeRun rebuilds a session from its store row.
func decodeRun(row *store.Run) (*session, error) {
	s := &session{
		id:    row.ID,
		query: row.Query,
		log:   &agents.SessionLog{},
	}

	if row.Hints != "" {
		if err := json.Unmarshal([]byte(row.Hints), &s.hints); err != nil {
			return nil, fmt.Errorf("decode hints: %w", err)
		}
	}
	if row.Results != "" {
		if err := json.Unmarshal([]byte(row.Results), &s.res); err != nil {
			return nil, fmt.Errorf("decode results: %w", err)
		}
	}
	if row.Log != "" {
		var entries []agents.LogEntry
		if err := json.Unmarshal([]byte(row.Log), &entries); err != nil {
			return nil, fmt.Errorf("decode log: %w", err)
		}
		s.log.Restore(entries)
	}
	return s, nil
}
