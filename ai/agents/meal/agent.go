// Package meal implements the meal-planning agent: it turns a request plus
// dietary hints into a week of recipes, falling back to a predefined menu
// when generation fails.
package meal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lifepilot/lifepilot/ai/agents"
	"github.com/lifepilot/lifepilot/ai/core/llm"
	"github.com/lifepilot/lifepilot/ai/memory"
)

// Name is the agent identifier used in logs and clarification signals.
const Name = "meal"

const contextRecords = 3

// Agent plans meals. It is the first stage of an orchestrated run.
type Agent struct {
	llm    llm.Service
	memory memory.Service
}

// NewAgent creates a meal agent over the given collaborators.
func NewAgent(llmService llm.Service, memoryService memory.Service) *Agent {
	return &Agent{llm: llmService, memory: memoryService}
}

// Plan produces a meal plan for the query. It returns a ClarificationError
// when dietary or spice preference is missing; it never fails on upstream
// model errors, substituting the fallback menu instead.
func (a *Agent) Plan(ctx context.Context, query string, hints agents.Hints, log *agents.SessionLog) (*agents.MealPlan, error) {
	if q, ok := a.clarify(hints); ok {
		return nil, agents.NeedsClarification(Name, q)
	}

	log.Appendf(Name, "planning meals (diet=%s, spice=%s)", hints.Diet, hints.Spice)

	recall, err := a.memory.Retrieve(ctx, query, contextRecords)
	if err != nil {
		// Remembered context is an enrichment, never a prerequisite.
		slog.Warn("meal: context retrieval failed, planning without it", "error", err)
		recall = nil
	}
	if len(recall) > 0 {
		log.Appendf(Name, "using %d remembered preferences", len(recall))
	}

	plan := a.generate(ctx, query, hints, recall, log)

	summary := summarize(query, hints, plan)
	if _, err := a.memory.Store(ctx, summary, Name); err != nil {
		slog.Warn("meal: storing plan summary failed", "error", err)
	}

	log.Appendf(Name, "meal plan ready: %d recipes", len(plan.Days))
	return plan, nil
}

// clarify reports the follow-up question to ask, if any. Diet is asked for
// first; spice preference second.
func (a *Agent) clarify(hints agents.Hints) (string, bool) {
	if hints.Diet == "" {
		return "Do you have a dietary preference (e.g. vegetarian, vegan, high-protein, none)?", true
	}
	if hints.Spice == "" {
		return "How spicy should the meals be: mild, medium, or spicy?", true
	}
	return "", false
}

// generate calls the model and parses its output. Upstream failures and
// unparseable output both substitute the fallback menu.
func (a *Agent) generate(ctx context.Context, query string, hints agents.Hints, recall []memory.Record, log *agents.SessionLog) *agents.MealPlan {
	prompt := buildPrompt(query, hints, recall)

	text, stats, err := a.llm.Complete(ctx, prompt, llm.Options{})
	if err != nil {
		if errors.Is(err, llm.ErrUpstream) {
			slog.Warn("meal: upstream model error, using fallback menu", "error", err)
			log.Append(Name, "FALLBACK: model unavailable, using predefined menu")
			return fallbackPlan(hints.Diet)
		}
		slog.Error("meal: completion failed, using fallback menu", "error", err)
		log.Append(Name, "FALLBACK: generation failed, using predefined menu")
		return fallbackPlan(hints.Diet)
	}
	if stats != nil {
		slog.Debug("meal: completion done", "total_tokens", stats.TotalTokens, "duration_ms", stats.TotalDurationMs)
	}

	plan, ok := parsePlan(text)
	if !ok {
		slog.Warn("meal: model output parsed to zero recipes, using fallback menu")
		log.Append(Name, "FALLBACK: unparseable model output, using predefined menu")
		return fallbackPlan(hints.Diet)
	}
	return plan
}

// summarize builds the memory snippet stored after a plan.
func summarize(query string, hints agents.Hints, plan *agents.MealPlan) string {
	recipes := make([]string, 0, len(plan.Days))
	for _, day := range plan.Days {
		recipes = append(recipes, day.Recipe)
	}
	return fmt.Sprintf("Meal plan for %q (diet: %s, spice: %s): %s",
		query, hints.Diet, hints.Spice, strings.Join(recipes, "; "))
}
