package travel

import (
	"fmt"
	"strings"

	"github.com/lifepilot/lifepilot/ai/agents"
	"github.com/lifepilot/lifepilot/ai/internal/strutil"
	"github.com/lifepilot/lifepilot/ai/memory"
)

const markerFormat = `For every day output exactly this format, no extra commentary:

Day: <date>
Activity: <time> | <description> | $<cost>
Activity: <time> | <description> | $<cost>

Finish with one line:
Packing: <comma-separated packing list>
`

// buildDraftPrompt requests the first itinerary for the trip.
func buildDraftPrompt(query string, hints agents.Hints, recall []memory.Record) string {
	var sb strings.Builder

	sb.WriteString("You are a travel planner. Create a day-by-day itinerary for the request below.\n\n")
	fmt.Fprintf(&sb, "Request: %s\n", query)
	fmt.Fprintf(&sb, "Destination: %s\n", hints.Destination)
	fmt.Fprintf(&sb, "Start date: %s\n", hints.StartDate)
	if hints.EndDate != "" {
		fmt.Fprintf(&sb, "End date: %s\n", hints.EndDate)
	}
	if hints.People > 0 {
		fmt.Fprintf(&sb, "Travellers: %d\n", hints.People)
	}
	if hints.Budget > 0 {
		fmt.Fprintf(&sb, "Total budget: $%.2f\n", hints.Budget)
	}

	if len(recall) > 0 {
		sb.WriteString("\nKnown preferences from earlier sessions:\n")
		for _, rec := range recall {
			fmt.Fprintf(&sb, "- %s\n", strutil.Truncate(rec.Text, 200))
		}
	}

	sb.WriteString("\n" + markerFormat)
	return sb.String()
}

// buildRefinePrompt asks for a cheaper revision of the previous draft.
func buildRefinePrompt(draft *agents.Itinerary, budget float64) string {
	var sb strings.Builder

	if draft.TotalCost == costUnknown {
		sb.WriteString("The previous itinerary did not include activity costs. Revise it and include a cost for every activity.\n\n")
	} else {
		fmt.Fprintf(&sb, "The previous itinerary totals $%.2f, which exceeds the budget of $%.2f. "+
			"Revise it to cost less, keeping the same days.\n\n", draft.TotalCost, budget)
	}

	sb.WriteString("Previous itinerary:\n")
	sb.WriteString(draft.Markdown)
	sb.WriteString("\n" + markerFormat)
	return sb.String()
}
