package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHints(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Hints
	}{
		{
			name:  "dinner query",
			query: "I want a quick vegetarian dinner for 2 tonight",
			want:  Hints{People: 2, Diet: "vegetarian"},
		},
		{
			name:  "travel query",
			query: "Plan a trip to Lisbon from 2026-09-01 to 2026-09-04 with a budget of $800",
			want:  Hints{Destination: "Lisbon", StartDate: "2026-09-01", EndDate: "2026-09-04", Budget: 800},
		},
		{
			name:  "dollar sign budget",
			query: "weekend in town under $150",
			want:  Hints{Budget: 150},
		},
		{
			name:  "party size words",
			query: "dinner for a party of 6, mild please",
			want:  Hints{People: 6, Spice: "mild"},
		},
		{
			name:  "two word destination",
			query: "flying to New York next month",
			want:  Hints{Destination: "New York"},
		},
		{
			name:  "empty",
			query: "help me out",
			want:  Hints{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractHints(tt.query))
		})
	}
}

func TestHintsMerge(t *testing.T) {
	base := Hints{People: 2, Diet: "vegetarian"}
	merged := base.Merge(Hints{Diet: "vegan", Budget: 100})

	assert.Equal(t, 2, merged.People)
	assert.Equal(t, "vegan", merged.Diet)
	assert.Equal(t, 100.0, merged.Budget)

	// Zero-valued fields never overwrite.
	same := merged.Merge(Hints{})
	assert.Equal(t, merged, same)
}

func TestMealPlanIngredients(t *testing.T) {
	plan := &MealPlan{Days: []MealDay{
		{Recipe: "a", Ingredients: []string{"quinoa", "tofu"}},
		{Recipe: "b", Ingredients: []string{"lentils"}},
	}}
	assert.Equal(t, []string{"quinoa", "tofu", "lentils"}, plan.Ingredients())
}

func TestSessionLogOrder(t *testing.T) {
	log := &SessionLog{}
	log.Append("meal", "first")
	log.Appendf("shopping", "second %d", 2)

	entries := log.Entries()
	assert.Len(t, entries, 2)
	assert.Equal(t, "meal", entries[0].Agent)
	assert.Equal(t, "second 2", entries[1].Message)
	assert.False(t, entries[1].Timestamp.Before(entries[0].Timestamp))
}

func TestClarificationError(t *testing.T) {
	err := NeedsClarification("meal", "Any dietary preference?")
	assert.Contains(t, err.Error(), "meal")
	assert.Contains(t, err.Error(), "Any dietary preference?")
}
