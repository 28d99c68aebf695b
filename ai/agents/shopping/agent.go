// Package shopping implements the shopping-list agent: it consolidates the
// meal plan's ingredients, groups them by aisle, and attaches prices from
// the external lookup collaborator.
package shopping

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lifepilot/lifepilot/ai/agents"
	"github.com/lifepilot/lifepilot/ai/core/llm"
	"github.com/lifepilot/lifepilot/ai/internal/strutil"
	"github.com/lifepilot/lifepilot/ai/memory"
	"github.com/lifepilot/lifepilot/pricing"
)

// Name is the agent identifier used in logs and clarification signals.
const Name = "shopping"

// fallbackIngredients is used when the plan carries no ingredients and the
// model cannot extract any from its markdown.
var fallbackIngredients = []string{
	"quinoa", "chickpeas", "tofu", "lentils",
	"spinach", "mushrooms", "paneer", "brown rice",
}

// Agent builds shopping lists. It is the second stage of an orchestrated run.
type Agent struct {
	llm    llm.Service
	memory memory.Service
	prices pricing.Lookuper
}

// NewAgent creates a shopping agent over the given collaborators.
func NewAgent(llmService llm.Service, memoryService memory.Service, prices pricing.Lookuper) *Agent {
	return &Agent{llm: llmService, memory: memoryService, prices: prices}
}

// Build produces a consolidated shopping list for the meal plan. Price
// lookup problems degrade the result to partial; they never fail the run.
func (a *Agent) Build(ctx context.Context, plan *agents.MealPlan, hints agents.Hints, log *agents.SessionLog) (*agents.ShoppingList, error) {
	log.Append(Name, "consolidating ingredients")

	names, fellBack := a.ingredients(ctx, plan, log)
	if kept, removed := filterForDiet(names, hints.Diet); removed > 0 {
		log.Appendf(Name, "removed %d item(s) not matching a %s diet", removed, hints.Diet)
		names = kept
	}
	items := consolidate(names)
	log.Appendf(Name, "%d distinct items across %d ingredients", len(items), len(names))

	list := &agents.ShoppingList{
		Aisles:      map[string][]agents.Item{},
		Substitutes: map[string]string{},
		Fallback:    fellBack,
	}

	a.price(ctx, items, list, log)

	for _, item := range items {
		aisle := aisleFor(item.Name)
		list.Aisles[aisle] = append(list.Aisles[aisle], item)
	}

	summary := fmt.Sprintf("Shopping list: %s", strings.Join(itemNames(items), ", "))
	if _, err := a.memory.Store(ctx, summary, Name); err != nil {
		slog.Warn("shopping: storing list summary failed", "error", err)
	}

	log.Appendf(Name, "shopping list ready: %d items, estimated $%.2f", len(items), list.EstimatedCost)
	return list, nil
}

// ingredients returns the raw ingredient names for the plan and whether the
// fixed staples list stood in. Structured ingredients win; otherwise the
// model extracts them from the plan markdown, with the fixed fallback when
// that fails too.
func (a *Agent) ingredients(ctx context.Context, plan *agents.MealPlan, log *agents.SessionLog) ([]string, bool) {
	if names := plan.Ingredients(); len(names) > 0 {
		return names, false
	}

	prompt := fmt.Sprintf(
		"Extract only the ingredient names from this meal plan. "+
			"Return them as a single comma-separated line, nothing else.\n\nMeal plan:\n%s",
		strutil.Truncate(plan.Markdown, 4000))

	text, _, err := a.llm.Complete(ctx, prompt, llm.Options{})
	if err != nil {
		slog.Warn("shopping: ingredient extraction failed, using fallback list", "error", err)
		log.Append(Name, "FALLBACK: ingredient extraction failed, using default staples")
		return fallbackIngredients, true
	}

	var names []string
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	if len(names) == 0 {
		log.Append(Name, "FALLBACK: ingredient extraction returned nothing, using default staples")
		return fallbackIngredients, true
	}
	return names, false
}

// price attaches quotes to the items in place. Failures and gaps set the
// partial flag and a note instead of erroring.
func (a *Agent) price(ctx context.Context, items []agents.Item, list *agents.ShoppingList, log *agents.SessionLog) {
	quote, err := a.prices.Lookup(ctx, itemNames(items))
	if err != nil {
		slog.Warn("shopping: price lookup failed", "error", err)
		list.Partial = true
		list.Note = "price lookup unavailable; list shown without prices"
		log.Append(Name, "price lookup unavailable, continuing without prices")
		a.substituteAll(items, list)
		return
	}

	var missing []string
	for i := range items {
		ip, ok := quote.Prices[items[i].Name]
		if !ok {
			missing = append(missing, items[i].Name)
			if sub, ok := substituteTable[items[i].Name]; ok {
				list.Substitutes[items[i].Name] = sub
			}
			continue
		}
		items[i].Price = ip.Price
		items[i].Store = ip.Store
		list.EstimatedCost += ip.Price * float64(items[i].Count)
	}

	if len(missing) > 0 {
		list.Partial = true
		list.Note = fmt.Sprintf("no price found for %d item(s): %s",
			len(missing), strings.Join(missing, ", "))
		log.Appendf(Name, "partial pricing: %d item(s) unpriced", len(missing))
	}
}

// substituteAll fills the substitution table for every item, used when the
// lookup collaborator is down entirely.
func (a *Agent) substituteAll(items []agents.Item, list *agents.ShoppingList) {
	for _, item := range items {
		if sub, ok := substituteTable[item.Name]; ok {
			list.Substitutes[item.Name] = sub
		}
	}
}

// nonVegKeywords are ingredient markers excluded from vegetarian and vegan
// lists, matched as substrings of the raw name.
var nonVegKeywords = []string{"chicken", "salmon", "beef", "pork", "fish", "shrimp"}

// meatFree reports whether the diet hint excludes meat and seafood.
func meatFree(diet string) bool {
	switch strings.ToLower(strings.TrimSpace(diet)) {
	case "vegetarian", "vegan", "veg":
		return true
	}
	return false
}

// filterForDiet drops ingredients the diet excludes. Extracted ingredient
// lists are not guaranteed to honor the diet, so the guard applies to every
// source. It returns the kept names and how many were removed.
func filterForDiet(names []string, diet string) ([]string, int) {
	if !meatFree(diet) {
		return names, 0
	}
	kept := make([]string, 0, len(names))
	for _, name := range names {
		lower := strings.ToLower(name)
		excluded := false
		for _, kw := range nonVegKeywords {
			if strings.Contains(lower, kw) {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, name)
		}
	}
	return kept, len(names) - len(kept)
}

// consolidate deduplicates ingredient names after normalization, counting
// repeats. Order follows first appearance.
func consolidate(names []string) []agents.Item {
	index := map[string]int{}
	var items []agents.Item
	for _, raw := range names {
		name := strutil.NormalizeItem(raw)
		if name == "" {
			continue
		}
		if i, ok := index[name]; ok {
			items[i].Count++
			continue
		}
		index[name] = len(items)
		items = append(items, agents.Item{Name: name, Count: 1})
	}
	return items
}

func itemNames(items []agents.Item) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

// Aisles returns the aisle names of a list in stable order, for rendering.
func Aisles(list *agents.ShoppingList) []string {
	names := make([]string, 0, len(list.Aisles))
	for name := range list.Aisles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
