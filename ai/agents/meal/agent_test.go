package meal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lifepilot/lifepilot/ai/agents"
	"github.com/lifepilot/lifepilot/ai/agents/agenttest"
	"github.com/lifepilot/lifepilot/ai/core/llm"
)

const wellFormedPlan = `Recipe: Vegetable stir fry
Ingredients: tofu, broccoli, soy sauce
Prep: 25 minutes

Recipe: Lentil soup
Ingredients: lentils, carrot, onion
Prep: 35 minutes
`

func TestPlan_AsksForSpiceWhenDietKnown(t *testing.T) {
	agent := NewAgent(agenttest.NewMockLLM(), agenttest.NewMockMemory())

	query := "I want a quick vegetarian dinner for 2 tonight"
	hints := agents.ExtractHints(query)
	require.Equal(t, "vegetarian", hints.Diet)
	require.Empty(t, hints.Spice)

	_, err := agent.Plan(context.Background(), query, hints, &agents.SessionLog{})

	var clarification *agents.ClarificationError
	require.ErrorAs(t, err, &clarification)
	require.Equal(t, Name, clarification.Agent)
	lower := strings.ToLower(clarification.Question)
	if !strings.Contains(lower, "spic") && !strings.Contains(lower, "mild") {
		t.Fatalf("question should mention spice or mild preference, got %q", clarification.Question)
	}
}

func TestPlan_AsksForDietFirst(t *testing.T) {
	agent := NewAgent(agenttest.NewMockLLM(), agenttest.NewMockMemory())

	_, err := agent.Plan(context.Background(), "plan my meals", agents.Hints{}, &agents.SessionLog{})

	var clarification *agents.ClarificationError
	require.ErrorAs(t, err, &clarification)
	require.Contains(t, strings.ToLower(clarification.Question), "diet")
}

func TestPlan_ParsesModelOutput(t *testing.T) {
	mockLLM := agenttest.NewMockLLM().WithDefaultResponse(wellFormedPlan)
	mem := agenttest.NewMockMemory()
	agent := NewAgent(mockLLM, mem)

	hints := agents.Hints{Diet: "vegetarian", Spice: "mild"}
	log := &agents.SessionLog{}
	plan, err := agent.Plan(context.Background(), "dinner ideas", hints, log)
	require.NoError(t, err)

	require.Len(t, plan.Days, 2)
	require.False(t, plan.Fallback)
	require.Equal(t, "Vegetable stir fry", plan.Days[0].Recipe)
	require.Equal(t, 25, plan.Days[0].PrepMinutes)
	require.Equal(t, []string{"lentils", "carrot", "onion"}, plan.Days[1].Ingredients)
	require.NotEmpty(t, plan.Markdown)

	// The plan summary lands in memory tagged with the agent name.
	records := mem.Records()
	require.Len(t, records, 1)
	require.Equal(t, Name, records[0].Tag)
	require.Contains(t, records[0].Text, "Vegetable stir fry")
}

func TestPlan_FallsBackOnUpstreamError(t *testing.T) {
	upstream := fmt.Errorf("%w: status 500", llm.ErrUpstream)
	mockLLM := agenttest.NewMockLLM().WithError(upstream)
	agent := NewAgent(mockLLM, agenttest.NewMockMemory())

	hints := agents.Hints{Diet: "vegetarian", Spice: "mild"}
	log := &agents.SessionLog{}
	plan, err := agent.Plan(context.Background(), "dinner ideas", hints, log)
	require.NoError(t, err)

	require.True(t, plan.Fallback)
	require.Len(t, plan.Days, 7)
	for _, day := range plan.Days {
		require.NotContains(t, strings.ToLower(day.Recipe), "chicken")
		require.NotContains(t, strings.ToLower(day.Recipe), "salmon")
	}

	var sawFallback bool
	for _, entry := range log.Entries() {
		if strings.Contains(entry.Message, "FALLBACK") {
			sawFallback = true
		}
	}
	require.True(t, sawFallback, "session log should record the fallback")
}

func TestPlan_FallsBackOnUnparseableOutput(t *testing.T) {
	mockLLM := agenttest.NewMockLLM().WithDefaultResponse("Sorry, I can't help with that.")
	agent := NewAgent(mockLLM, agenttest.NewMockMemory())

	hints := agents.Hints{Diet: "none", Spice: "medium"}
	plan, err := agent.Plan(context.Background(), "dinner ideas", hints, &agents.SessionLog{})
	require.NoError(t, err)
	require.True(t, plan.Fallback)
	require.Len(t, plan.Days, 7)
}

func TestPlan_UsesRememberedContext(t *testing.T) {
	mem := agenttest.NewMockMemory().Seed("User dislikes mushrooms in dinner dishes", "meal")
	mockLLM := agenttest.NewMockLLM().WithDefaultResponse(wellFormedPlan)
	agent := NewAgent(mockLLM, mem)

	hints := agents.Hints{Diet: "vegetarian", Spice: "mild"}
	log := &agents.SessionLog{}
	_, err := agent.Plan(context.Background(), "dinner ideas", hints, log)
	require.NoError(t, err)

	var sawContext bool
	for _, entry := range log.Entries() {
		if strings.Contains(entry.Message, "remembered") {
			sawContext = true
		}
	}
	require.True(t, sawContext)
}

func TestFallbackPlan_HighProtein(t *testing.T) {
	plan := fallbackPlan("high-protein")
	require.Len(t, plan.Days, 7)
	for _, day := range plan.Days {
		require.Contains(t, day.Recipe, "high-protein")
	}
}

func TestParsePlan_ZeroRecipes(t *testing.T) {
	if _, ok := parsePlan("no markers here"); ok {
		t.Fatal("expected parse failure on marker-free text")
	}
}

func TestParseMinutes(t *testing.T) {
	cases := map[string]int{
		" 25 minutes":   25,
		" about 1 hour": 60,
		" n/a":          0,
	}
	for in, want := range cases {
		if got := parseMinutes(in); got != want {
			t.Errorf("parseMinutes(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestPlan_RetrieveErrorDoesNotFailRun(t *testing.T) {
	mem := agenttest.NewMockMemory().WithRetrieveError(errors.New("search backend down"))
	mockLLM := agenttest.NewMockLLM().WithDefaultResponse(wellFormedPlan)
	agent := NewAgent(mockLLM, mem)

	hints := agents.Hints{Diet: "vegetarian", Spice: "mild"}
	plan, err := agent.Plan(context.Background(), "dinner ideas", hints, &agents.SessionLog{})
	require.NoError(t, err)
	require.False(t, plan.Fallback)
	require.Len(t, plan.Days, 2)
}

func TestPlan_MemoryFailureDoesNotFailRun(t *testing.T) {
	mem := agenttest.NewMockMemory().WithError(errors.New("store down"))
	mockLLM := agenttest.NewMockLLM().WithDefaultResponse(wellFormedPlan)
	agent := NewAgent(mockLLM, mem)

	hints := agents.Hints{Diet: "vegetarian", Spice: "mild"}
	plan, err := agent.Plan(context.Background(), "dinner ideas", hints, &agents.SessionLog{})
	require.NoError(t, err)
	require.False(t, plan.Fallback)
}
