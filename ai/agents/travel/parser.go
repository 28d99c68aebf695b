package travel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lifepilot/lifepilot/ai/agents"
)

// costUnknown marks a draft whose activities carried no parseable costs. A
// draft with unknown cost can never satisfy a budget check.
const costUnknown = float64(-1)

// parseItinerary locates Day:/Activity:/Packing: markers in the completion
// text. Activities are "time | description | cost" triples; a missing or
// unparseable cost field leaves that activity at zero and, when no activity
// carried a cost at all, marks the itinerary's total as unknown.
func parseItinerary(text string) (*agents.Itinerary, bool) {
	it := &agents.Itinerary{}
	var current *agents.TravelDay
	costsSeen := 0

	flush := func() {
		if current != nil {
			it.Days = append(it.Days, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		lower := strings.ToLower(line)

		switch {
		case strings.HasPrefix(lower, "day:"):
			flush()
			current = &agents.TravelDay{Date: strings.TrimSpace(line[len("day:"):])}
		case strings.HasPrefix(lower, "activity:") && current != nil:
			act, hasCost := parseActivity(line[len("activity:"):])
			if hasCost {
				costsSeen++
				it.TotalCost += act.Cost
			}
			current.Activities = append(current.Activities, act)
		case strings.HasPrefix(lower, "packing:"):
			for _, item := range strings.Split(line[len("packing:"):], ",") {
				if item = strings.TrimSpace(item); item != "" {
					it.PackingList = append(it.PackingList, item)
				}
			}
		}
	}
	flush()

	if len(it.Days) == 0 {
		return nil, false
	}
	if costsSeen == 0 {
		it.TotalCost = costUnknown
	}
	it.Markdown = renderMarkdown(it)
	return it, true
}

// parseActivity splits "time | description | cost". Fewer fields degrade
// gracefully: one field is a bare description.
func parseActivity(s string) (agents.Activity, bool) {
	parts := strings.Split(s, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	act := agents.Activity{}
	switch len(parts) {
	case 1:
		act.Description = parts[0]
	case 2:
		act.Time = parts[0]
		act.Description = parts[1]
	default:
		act.Time = parts[0]
		act.Description = parts[1]
		raw := strings.TrimPrefix(parts[2], "$")
		if cost, err := strconv.ParseFloat(raw, 64); err == nil && cost >= 0 {
			act.Cost = cost
			return act, true
		}
	}
	return act, false
}

func renderMarkdown(it *agents.Itinerary) string {
	var sb strings.Builder
	for i, day := range it.Days {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("### " + day.Date + "\n")
		for _, act := range day.Activities {
			sb.WriteString("- ")
			if act.Time != "" {
				sb.WriteString(act.Time + " ")
			}
			sb.WriteString(act.Description)
			if act.Cost > 0 {
				fmt.Fprintf(&sb, " ($%.2f)", act.Cost)
			}
			sb.WriteString("\n")
		}
	}
	if it.TotalCost > 0 {
		fmt.Fprintf(&sb, "\nEstimated total: $%.2f\n", it.TotalCost)
	}
	if len(it.PackingList) > 0 {
		sb.WriteString("\nPacking list: " + strings.Join(it.PackingList, ", ") + "\n")
	}
	return sb.String()
}
