package meal

import (
	"fmt"
	"strings"

	"github.com/lifepilot/lifepilot/ai/agents"
	"github.com/lifepilot/lifepilot/ai/internal/strutil"
	"github.com/lifepilot/lifepilot/ai/memory"
)

const recipeCount = 7

// buildPrompt asks for a fixed marker format so the parser can locate
// recipe, ingredient, and prep-time lines without depending on model JSON
// discipline.
func buildPrompt(query string, hints agents.Hints, recall []memory.Record) string {
	var sb strings.Builder

	sb.WriteString("You are a meal planner. Create ")
	fmt.Fprintf(&sb, "%d recipe options for the request below.\n\n", recipeCount)

	fmt.Fprintf(&sb, "Request: %s\n", query)
	fmt.Fprintf(&sb, "Dietary preference: %s\n", hints.Diet)
	if hints.Spice != "" {
		fmt.Fprintf(&sb, "Spice preference: %s\n", hints.Spice)
	}
	if hints.People > 0 {
		fmt.Fprintf(&sb, "Servings: %d\n", hints.People)
	}

	if len(recall) > 0 {
		sb.WriteString("\nKnown preferences from earlier sessions:\n")
		for _, rec := range recall {
			fmt.Fprintf(&sb, "- %s\n", strutil.Truncate(rec.Text, 200))
		}
	}

	sb.WriteString(`
Respect the dietary preference strictly. For every recipe output exactly
this format, one block per recipe, no extra commentary:

Recipe: <name>
Ingredients: <comma-separated ingredients>
Prep: <minutes> minutes
`)
	return sb.String()
}
