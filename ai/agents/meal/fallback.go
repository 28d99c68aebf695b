package meal

import (
	"strings"

	"github.com/lifepilot/lifepilot/ai/agents"
)

// Fallback menus used when generation fails or parses to zero recipes.
// The vegetarian and default menus differ; a high-protein preference
// annotates each recipe.

var vegetarianMenu = []agents.MealDay{
	{Recipe: "Quinoa salad with chickpeas", Ingredients: []string{"quinoa", "chickpeas", "cucumber", "lemon"}, PrepMinutes: 20},
	{Recipe: "Vegetable stir fry with tofu", Ingredients: []string{"tofu", "broccoli", "bell pepper", "soy sauce"}, PrepMinutes: 25},
	{Recipe: "Lentil soup with whole grain bread", Ingredients: []string{"lentils", "carrot", "onion", "whole grain bread"}, PrepMinutes: 35},
	{Recipe: "Grilled veggie wrap with hummus", Ingredients: []string{"tortilla", "zucchini", "hummus", "spinach"}, PrepMinutes: 15},
	{Recipe: "Black bean tacos with avocado", Ingredients: []string{"black beans", "tortilla", "avocado", "lime"}, PrepMinutes: 20},
	{Recipe: "Spinach and mushroom omelet", Ingredients: []string{"eggs", "spinach", "mushrooms", "cheese"}, PrepMinutes: 15},
	{Recipe: "Paneer curry with brown rice", Ingredients: []string{"paneer", "tomato", "brown rice", "garam masala"}, PrepMinutes: 40},
}

var defaultMenu = []agents.MealDay{
	{Recipe: "Chicken stir fry with brown rice", Ingredients: []string{"chicken", "brown rice", "broccoli", "soy sauce"}, PrepMinutes: 30},
	{Recipe: "Vegetable pasta with salad", Ingredients: []string{"pasta", "tomato", "lettuce", "olive oil"}, PrepMinutes: 25},
	{Recipe: "Grilled salmon with quinoa", Ingredients: []string{"salmon", "quinoa", "asparagus", "lemon"}, PrepMinutes: 30},
	{Recipe: "Chickpea curry with naan", Ingredients: []string{"chickpeas", "coconut milk", "naan", "curry powder"}, PrepMinutes: 35},
	{Recipe: "Tacos with chicken or beans", Ingredients: []string{"tortilla", "chicken", "black beans", "salsa"}, PrepMinutes: 25},
	{Recipe: "Biryani with raita", Ingredients: []string{"basmati rice", "chicken", "yogurt", "biryani spice"}, PrepMinutes: 50},
	{Recipe: "Paneer butter masala with rice", Ingredients: []string{"paneer", "butter", "tomato", "rice"}, PrepMinutes: 40},
}

// fallbackPlan returns the predefined menu matching the dietary preference.
func fallbackPlan(diet string) *agents.MealPlan {
	lower := strings.ToLower(diet)
	menu := defaultMenu
	if strings.Contains(lower, "veg") {
		menu = vegetarianMenu
	}

	days := make([]agents.MealDay, len(menu))
	copy(days, menu)

	if strings.Contains(lower, "high-protein") || strings.Contains(lower, "high protein") {
		for i := range days {
			days[i].Recipe += " (high-protein option)"
		}
	}

	plan := &agents.MealPlan{Days: days, Fallback: true}
	plan.Markdown = renderMarkdown(plan)
	return plan
}
