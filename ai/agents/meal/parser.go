package meal

import (
	"strconv"
	"strings"

	"github.com/lifepilot/lifepilot/ai/agents"
)

// parsePlan locates Recipe:/Ingredients:/Prep: markers in the completion
// text. Parsing LLM output is best-effort: a plan with zero recipes reports
// ok=false and the caller substitutes the fallback menu.
func parsePlan(text string) (*agents.MealPlan, bool) {
	plan := &agents.MealPlan{}
	var current *agents.MealDay

	flush := func() {
		if current != nil && current.Recipe != "" {
			plan.Days = append(plan.Days, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		lower := strings.ToLower(line)

		switch {
		case strings.HasPrefix(lower, "recipe:"):
			flush()
			current = &agents.MealDay{Recipe: strings.TrimSpace(line[len("recipe:"):])}
		case strings.HasPrefix(lower, "ingredients:") && current != nil:
			for _, item := range strings.Split(line[len("ingredients:"):], ",") {
				if item = strings.TrimSpace(item); item != "" {
					current.Ingredients = append(current.Ingredients, item)
				}
			}
		case strings.HasPrefix(lower, "prep:") && current != nil:
			current.PrepMinutes = parseMinutes(line[len("prep:"):])
		}
	}
	flush()

	if len(plan.Days) == 0 {
		return nil, false
	}
	plan.Markdown = renderMarkdown(plan)
	return plan, true
}

// parseMinutes extracts the first integer from a prep line like
// "25 minutes" or "about 1 hour" (hours are converted).
func parseMinutes(s string) int {
	fields := strings.Fields(strings.ToLower(s))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.Trim(f, ".,~"))
		if err != nil {
			continue
		}
		if i+1 < len(fields) && strings.HasPrefix(fields[i+1], "hour") {
			return n * 60
		}
		return n
	}
	return 0
}

func renderMarkdown(plan *agents.MealPlan) string {
	var sb strings.Builder
	for i, day := range plan.Days {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("### " + day.Recipe + "\n")
		if len(day.Ingredients) > 0 {
			sb.WriteString("- Ingredients: " + strings.Join(day.Ingredients, ", ") + "\n")
		}
		if day.PrepMinutes > 0 {
			sb.WriteString("- Prep: " + strconv.Itoa(day.PrepMinutes) + " minutes\n")
		}
	}
	return sb.String()
}
