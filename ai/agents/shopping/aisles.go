package shopping

import (
	"sort"
	"strings"
)

// aisleTable maps normalized ingredient names to store aisles. Anything
// absent lands in defaultAisle.
const defaultAisle = "Other"

var aisleTable = map[string]string{
	"broccoli":    "Produce",
	"carrot":      "Produce",
	"onion":       "Produce",
	"spinach":     "Produce",
	"mushroom":    "Produce",
	"tomato":      "Produce",
	"cucumber":    "Produce",
	"bell pepper": "Produce",
	"zucchini":    "Produce",
	"avocado":     "Produce",
	"lemon":       "Produce",
	"lime":        "Produce",
	"lettuce":     "Produce",
	"asparagus":   "Produce",

	"cheese": "Dairy",
	"butter": "Dairy",
	"yogurt": "Dairy",
	"egg":    "Dairy",
	"paneer": "Dairy",
	"milk":   "Dairy",
	"hummus": "Dairy",

	"chicken": "Meat & Seafood",
	"salmon":  "Meat & Seafood",
	"beef":    "Meat & Seafood",
	"shrimp":  "Meat & Seafood",

	"quinoa":            "Grains & Pasta",
	"brown rice":        "Grains & Pasta",
	"rice":              "Grains & Pasta",
	"basmati rice":      "Grains & Pasta",
	"pasta":             "Grains & Pasta",
	"lentil":            "Grains & Pasta",
	"chickpea":          "Grains & Pasta",
	"black bean":        "Grains & Pasta",
	"whole grain bread": "Bakery",
	"naan":              "Bakery",
	"tortilla":          "Bakery",

	"tofu":          "Pantry",
	"soy sauce":     "Pantry",
	"olive oil":     "Pantry",
	"coconut milk":  "Pantry",
	"curry powder":  "Pantry",
	"garam masala":  "Pantry",
	"biryani spice": "Pantry",
	"salsa":         "Pantry",
}

// substituteTable suggests replacements for items the price quote could not
// resolve.
var substituteTable = map[string]string{
	"paneer":        "firm tofu",
	"garam masala":  "curry powder",
	"biryani spice": "curry powder",
	"basmati rice":  "long grain rice",
	"naan":          "pita bread",
	"asparagus":     "green beans",
	"quinoa":        "couscous",
	"coconut milk":  "heavy cream",
}

var aisleKeys = func() []string {
	keys := make([]string, 0, len(aisleTable))
	for key := range aisleTable {
		keys = append(keys, key)
	}
	// Longest key first so "brown rice" beats "rice".
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// aisleFor returns the aisle for a normalized item name. Exact entries match
// first, then the longest table key contained in the name.
func aisleFor(name string) string {
	if aisle, ok := aisleTable[name]; ok {
		return aisle
	}
	for _, key := range aisleKeys {
		if strings.Contains(name, key) {
			return aisleTable[key]
		}
	}
	return defaultAisle
}
