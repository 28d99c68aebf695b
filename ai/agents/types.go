// Package agents holds the structured results, session log, and control
// signals shared by the meal, shopping, and travel agents.
package agents

// MealDay is one day of a meal plan.
type MealDay struct {
	Recipe      string   `json:"recipe"`
	Ingredients []string `json:"ingredients"`
	PrepMinutes int      `json:"prep_minutes"`
}

// MealPlan is the meal agent's result. Fallback marks the predefined menu
// substituted when generation failed or parsed to zero recipes.
type MealPlan struct {
	Days     []MealDay `json:"days"`
	Fallback bool      `json:"fallback"`
	Markdown string    `json:"markdown"`
}

// Ingredients returns every ingredient across all days, in day order.
func (p *MealPlan) Ingredients() []string {
	var out []string
	for _, day := range p.Days {
		out = append(out, day.Ingredients...)
	}
	return out
}

// Item is one consolidated shopping list entry.
type Item struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Price float64 `json:"price,omitempty"`
	Store string  `json:"store,omitempty"`
}

// ShoppingList is the shopping agent's result. Partial marks missing price
// data; the note explains what is missing. Fallback marks that the default
// staples list stood in for the plan's ingredients.
type ShoppingList struct {
	Aisles        map[string][]Item `json:"aisles"`
	Substitutes   map[string]string `json:"substitutes"`
	EstimatedCost float64           `json:"estimated_cost"`
	Partial       bool              `json:"partial"`
	Fallback      bool              `json:"fallback"`
	Note          string            `json:"note,omitempty"`
}

// Activity is one itinerary entry.
type Activity struct {
	Time        string  `json:"time"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}

// TravelDay is one day of an itinerary.
type TravelDay struct {
	Date       string     `json:"date"`
	Activities []Activity `json:"activities"`
}

// Itinerary is the travel agent's result. OverBudget marks that the
// refinement loop hit its iteration cap without meeting the budget;
// Fallback marks the minimal itinerary substituted when no draft parsed.
type Itinerary struct {
	Days        []TravelDay `json:"days"`
	TotalCost   float64     `json:"total_cost"`
	PackingList []string    `json:"packing_list"`
	OverBudget  bool        `json:"over_budget"`
	Fallback    bool        `json:"fallback"`
	Iterations  int         `json:"iterations"`
	Markdown    string      `json:"markdown"`
}
