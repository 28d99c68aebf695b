// Package travel implements the travel agent: it drafts a day-by-day
// itinerary and refines it toward the budget within a bounded number of
// revision rounds.
package travel

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lifepilot/lifepilot/ai/agents"
	"github.com/lifepilot/lifepilot/ai/core/llm"
	"github.com/lifepilot/lifepilot/ai/memory"
)

// Name is the agent identifier used in logs and clarification signals.
const Name = "travel"

const (
	contextRecords       = 3
	defaultMaxIterations = 3
)

// Agent plans trips. It is the third stage of an orchestrated run.
type Agent struct {
	llm           llm.Service
	memory        memory.Service
	maxIterations int
}

// NewAgent creates a travel agent. maxIterations bounds the budget
// refinement loop; values below one fall back to the default.
func NewAgent(llmService llm.Service, memoryService memory.Service, maxIterations int) *Agent {
	if maxIterations < 1 {
		maxIterations = defaultMaxIterations
	}
	return &Agent{llm: llmService, memory: memoryService, maxIterations: maxIterations}
}

// Plan produces an itinerary for the query. It returns a ClarificationError
// when the destination or start date is missing. Upstream model failures
// fall back to the best draft so far, or to a minimal itinerary when no
// draft exists; they never fail the run.
func (a *Agent) Plan(ctx context.Context, query string, hints agents.Hints, log *agents.SessionLog) (*agents.Itinerary, error) {
	if q, ok := a.clarify(hints); ok {
		return nil, agents.NeedsClarification(Name, q)
	}

	log.Appendf(Name, "planning trip to %s starting %s", hints.Destination, hints.StartDate)

	recall, err := a.memory.Retrieve(ctx, query, contextRecords)
	if err != nil {
		// Remembered context is an enrichment, never a prerequisite.
		slog.Warn("travel: context retrieval failed, planning without it", "error", err)
		recall = nil
	}
	if len(recall) > 0 {
		log.Appendf(Name, "using %d remembered preferences", len(recall))
	}

	it := a.refine(ctx, query, hints, recall, log)

	if _, err := a.memory.Store(ctx, summarize(hints, it), Name); err != nil {
		slog.Warn("travel: storing itinerary summary failed", "error", err)
	}

	log.Appendf(Name, "itinerary ready: %d days, %d revision(s)", len(it.Days), it.Iterations)
	return it, nil
}

func (a *Agent) clarify(hints agents.Hints) (string, bool) {
	if hints.Destination == "" {
		return "Where would you like to travel?", true
	}
	if hints.StartDate == "" {
		return "What date does the trip start (YYYY-MM-DD)?", true
	}
	return "", false
}

// refine runs the draft-and-revise loop. The best draft is the one with the
// lowest known cost; drafts with unknown costs only stand in when nothing
// better exists.
func (a *Agent) refine(ctx context.Context, query string, hints agents.Hints, recall []memory.Record, log *agents.SessionLog) *agents.Itinerary {
	var best *agents.Itinerary
	iterations := 0

	for iterations < a.maxIterations {
		iterations++

		var prompt string
		if best == nil {
			prompt = buildDraftPrompt(query, hints, recall)
		} else {
			prompt = buildRefinePrompt(best, hints.Budget)
		}

		text, _, err := a.llm.Complete(ctx, prompt, llm.Options{})
		if err != nil {
			slog.Warn("travel: completion failed mid-loop", "iteration", iterations, "error", err)
			log.Appendf(Name, "model unavailable on revision %d, keeping best draft", iterations)
			break
		}

		draft, ok := parseItinerary(text)
		if !ok {
			slog.Warn("travel: unparseable itinerary output", "iteration", iterations)
			continue
		}
		draft.Iterations = iterations

		if better(draft, best) {
			best = draft
		}

		if hints.Budget <= 0 {
			break
		}
		if best.TotalCost != costUnknown && best.TotalCost <= hints.Budget {
			break
		}
		log.Appendf(Name, "draft exceeds budget, requesting cheaper revision (%d/%d)",
			iterations, a.maxIterations)
	}

	if best == nil {
		log.Append(Name, "FALLBACK: no usable draft, using minimal itinerary")
		best = fallbackItinerary(hints)
	}
	best.Iterations = iterations

	if hints.Budget > 0 && (best.TotalCost == costUnknown || best.TotalCost > hints.Budget) {
		best.OverBudget = true
		log.Appendf(Name, "budget not met after %d revision(s)", iterations)
	}
	return best
}

// better prefers the draft with the lowest known cost.
func better(draft, best *agents.Itinerary) bool {
	if best == nil {
		return true
	}
	if draft.TotalCost == costUnknown {
		return false
	}
	return best.TotalCost == costUnknown || draft.TotalCost < best.TotalCost
}

// fallbackItinerary is the minimal plan substituted when every draft failed.
func fallbackItinerary(hints agents.Hints) *agents.Itinerary {
	it := &agents.Itinerary{
		Fallback: true,
		Days: []agents.TravelDay{{
			Date: hints.StartDate,
			Activities: []agents.Activity{
				{Time: "09:00", Description: "Explore " + hints.Destination + " on foot"},
				{Time: "13:00", Description: "Lunch at a local market"},
				{Time: "15:00", Description: "Visit a free museum or park"},
			},
		}},
		PackingList: []string{"comfortable shoes", "water bottle", "phone charger"},
	}
	it.Markdown = renderMarkdown(it)
	return it
}

func summarize(hints agents.Hints, it *agents.Itinerary) string {
	cost := "unknown cost"
	if it.TotalCost >= 0 {
		cost = fmt.Sprintf("$%.2f", it.TotalCost)
	}
	return fmt.Sprintf("Trip to %s starting %s: %d day(s), %s", hints.Destination, hints.StartDate, len(it.Days), cost)
}
