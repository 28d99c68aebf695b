// Package orchestrator runs the fixed agent sequence for one request and
// persists the state machine between requests, so a run suspended on a
// clarifying question can resume when the answer arrives.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lifepilot/lifepilot/ai/agents"
	"github.com/lifepilot/lifepilot/ai/agents/meal"
	"github.com/lifepilot/lifepilot/ai/agents/shopping"
	"github.com/lifepilot/lifepilot/ai/agents/travel"
	"github.com/lifepilot/lifepilot/ai/metrics"
	"github.com/lifepilot/lifepilot/store"
)

// Run states, persisted between requests.
const (
	StateReceived              = "RECEIVED"
	StateMeal                  = "MEAL"
	StateShopping              = "SHOPPING"
	StateTravel                = "TRAVEL"
	StateDone                  = "DONE"
	StateAwaitingClarification = "AWAITING_CLARIFICATION"
)

// Final run statuses surfaced to callers.
const (
	StatusOK                    = "ok"
	StatusPartial               = "partial"
	StatusAwaitingClarification = "awaiting_clarification"
	StatusError                 = "error"
)

var (
	// ErrRunNotFound reports an unknown run id.
	ErrRunNotFound = errors.New("run not found")

	// ErrNotAwaiting reports an answer for a run that is not suspended.
	ErrNotAwaiting = errors.New("run is not awaiting clarification")
)

// Clarification is the pending question of a suspended run.
type Clarification struct {
	Agent    string `json:"agent"`
	Question string `json:"question"`
}

// RunResult is the caller-facing outcome of a run, complete or suspended.
type RunResult struct {
	ID            string               `json:"id"`
	Status        string               `json:"status"`
	Meal          *agents.MealPlan     `json:"meal,omitempty"`
	Shopping      *agents.ShoppingList `json:"shopping,omitempty"`
	Travel        *agents.Itinerary    `json:"travel,omitempty"`
	Log           []agents.LogEntry    `json:"log"`
	Clarification *Clarification       `json:"clarification,omitempty"`
	Err           string               `json:"error,omitempty"`
}

// Orchestrator executes the meal, shopping, and travel agents in sequence.
type Orchestrator struct {
	meal     *meal.Agent
	shopping *shopping.Agent
	travel   *travel.Agent
	store    *store.Store
	exporter *metrics.PrometheusExporter
}

// New creates an orchestrator. The exporter may be nil in tests.
func New(mealAgent *meal.Agent, shoppingAgent *shopping.Agent, travelAgent *travel.Agent, st *store.Store, exporter *metrics.PrometheusExporter) *Orchestrator {
	return &Orchestrator{
		meal:     mealAgent,
		shopping: shoppingAgent,
		travel:   travelAgent,
		store:    st,
		exporter: exporter,
	}
}

// Run creates and executes a new run for the query. Explicit hints win over
// values extracted from the query text.
func (o *Orchestrator) Run(ctx context.Context, query string, hints agents.Hints) (*RunResult, error) {
	s := &session{
		id:      uuid.NewString(),
		query:   query,
		hints:   agents.ExtractHints(query).Merge(hints),
		log:     &agents.SessionLog{},
		started: time.Now(),
	}

	row, err := encodeRun(s, StateReceived)
	if err != nil {
		return nil, err
	}
	if _, err := o.store.CreateRun(ctx, row); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	s.log.Append("orchestrator", "request received")
	return o.execute(ctx, s, StateMeal)
}

// Resume continues a suspended run with the caller's answer. The answer is
// merged into the hints and appended to the query context; execution picks
// up at the stage that asked.
func (o *Orchestrator) Resume(ctx context.Context, runID, answer string) (*RunResult, error) {
	row, err := o.store.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	if row == nil {
		return nil, ErrRunNotFound
	}
	if row.State != StateAwaitingClarification {
		return nil, fmt.Errorf("%w: state %s", ErrNotAwaiting, row.State)
	}

	s, err := decodeRun(row)
	if err != nil {
		return nil, err
	}
	s.started = time.Now()
	s.hints = s.hints.Merge(agents.ExtractHints(answer))
	s.query = s.query + "\n" + answer

	s.log.Appendf("orchestrator", "clarification answered: %s", answer)
	return o.execute(ctx, s, row.ResumeState)
}

// Get returns the persisted result of a run without executing anything.
func (o *Orchestrator) Get(ctx context.Context, runID string) (*RunResult, error) {
	row, err := o.store.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	if row == nil {
		return nil, ErrRunNotFound
	}

	s, err := decodeRun(row)
	if err != nil {
		return nil, err
	}
	return o.result(s, row), nil
}

var stageOrder = []string{StateMeal, StateShopping, StateTravel}

// execute advances the state machine from the given stage to completion or
// suspension, persisting the run after every transition.
func (o *Orchestrator) execute(ctx context.Context, s *session, from string) (*RunResult, error) {
	start := stageIndex(from)
	if start < 0 {
		return nil, fmt.Errorf("unknown resume stage %q", from)
	}

	for _, stage := range stageOrder[start:] {
		if err := o.persist(ctx, s, stage, "", nil, ""); err != nil {
			return nil, err
		}

		stageStart := time.Now()
		err := o.runStage(ctx, s, stage)
		if o.exporter != nil {
			o.exporter.RecordAgentStage(agentName(stage), time.Since(stageStart))
		}

		var clarification *agents.ClarificationError
		if errors.As(err, &clarification) {
			s.log.Appendf("orchestrator", "paused: %s needs input", clarification.Agent)
			if o.exporter != nil {
				o.exporter.RecordClarification(clarification.Agent)
			}
			if err := o.persist(ctx, s, StateAwaitingClarification, stage, clarification, ""); err != nil {
				return nil, err
			}
			res := o.partialResult(s)
			res.Status = StatusAwaitingClarification
			res.Clarification = &Clarification{Agent: clarification.Agent, Question: clarification.Question}
			return res, nil
		}
		if err != nil {
			// Unrecoverable: halt, keep what earlier stages produced.
			slog.Error("orchestrator: stage failed", "run_id", s.id, "stage", stage, "error", err)
			s.log.Appendf("orchestrator", "%s stage failed, halting", agentName(stage))
			if perr := o.persist(ctx, s, StateDone, "", nil, err.Error()); perr != nil {
				return nil, perr
			}
			o.recordRun(StatusError, s)
			res := o.partialResult(s)
			res.Status = StatusError
			res.Err = err.Error()
			return res, nil
		}
	}

	s.log.Append("orchestrator", "all agents done")
	status := s.finalStatus()
	if err := o.persist(ctx, s, StateDone, "", nil, ""); err != nil {
		return nil, err
	}
	o.recordRun(status, s)

	res := o.partialResult(s)
	res.Status = status
	return res, nil
}

func (o *Orchestrator) runStage(ctx context.Context, s *session, stage string) error {
	switch stage {
	case StateMeal:
		plan, err := o.meal.Plan(ctx, s.query, s.hints, s.log)
		if err != nil {
			return err
		}
		s.res.Meal = plan
		if plan.Fallback && o.exporter != nil {
			o.exporter.RecordFallback(meal.Name)
		}
	case StateShopping:
		plan := s.res.Meal
		if plan == nil {
			plan = &agents.MealPlan{}
		}
		list, err := o.shopping.Build(ctx, plan, s.hints, s.log)
		if err != nil {
			return err
		}
		s.res.Shopping = list
		if list.Fallback && o.exporter != nil {
			o.exporter.RecordFallback(shopping.Name)
		}
	case StateTravel:
		it, err := o.travel.Plan(ctx, s.query, s.hints, s.log)
		if err != nil {
			return err
		}
		s.res.Travel = it
		if it.Fallback && o.exporter != nil {
			o.exporter.RecordFallback(travel.Name)
		}
	default:
		return fmt.Errorf("unknown stage %q", stage)
	}
	return nil
}

func (o *Orchestrator) recordRun(status string, s *session) {
	if o.exporter != nil {
		o.exporter.RecordRun(status, time.Since(s.started))
	}
}

func (o *Orchestrator) partialResult(s *session) *RunResult {
	return &RunResult{
		ID:       s.id,
		Meal:     s.res.Meal,
		Shopping: s.res.Shopping,
		Travel:   s.res.Travel,
		Log:      s.log.Entries(),
	}
}

// result rebuilds a caller-facing result from a persisted row.
func (o *Orchestrator) result(s *session, row *store.Run) *RunResult {
	res := o.partialResult(s)
	switch {
	case row.State == StateAwaitingClarification:
		res.Status = StatusAwaitingClarification
		res.Clarification = &Clarification{Agent: agentName(row.ResumeState), Question: row.Clarification}
	case row.Error != "":
		res.Status = StatusError
		res.Err = row.Error
	case row.State == StateDone:
		res.Status = s.finalStatus()
	default:
		// A row caught mid-flight by a concurrent reader.
		res.Status = StatusPartial
	}
	return res
}

func stageIndex(stage string) int {
	for i, st := range stageOrder {
		if st == stage {
			return i
		}
	}
	return -1
}

func agentName(stage string) string {
	switch stage {
	case StateMeal:
		return meal.Name
	case StateShopping:
		return shopping.Name
	case StateTravel:
		return travel.Name
	}
	return "orchestrator"
}
