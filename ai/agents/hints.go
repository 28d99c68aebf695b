package agents

import (
	"regexp"
	"strconv"
	"strings"
)

// Hints are the structured values extracted from a query or supplied
// explicitly by the caller. Explicit values always win over extracted ones.
type Hints struct {
	People      int     `json:"people,omitempty"`
	Budget      float64 `json:"budget,omitempty"`
	Destination string  `json:"destination,omitempty"`
	StartDate   string  `json:"start_date,omitempty"`
	EndDate     string  `json:"end_date,omitempty"`
	Diet        string  `json:"diet,omitempty"`
	Spice       string  `json:"spice,omitempty"`
}

// Merge overlays other on top of h, field by field. Set fields in other win.
func (h Hints) Merge(other Hints) Hints {
	if other.People > 0 {
		h.People = other.People
	}
	if other.Budget > 0 {
		h.Budget = other.Budget
	}
	if other.Destination != "" {
		h.Destination = other.Destination
	}
	if other.StartDate != "" {
		h.StartDate = other.StartDate
	}
	if other.EndDate != "" {
		h.EndDate = other.EndDate
	}
	if other.Diet != "" {
		h.Diet = other.Diet
	}
	if other.Spice != "" {
		h.Spice = other.Spice
	}
	return h
}

var (
	peopleRe = regexp.MustCompile(`(?i)\bfor (\d+)\b|\b(\d+) (?:people|persons|adults|guests)\b|\bparty of (\d+)\b`)
	budgetRe = regexp.MustCompile(`(?i)\$\s*(\d+(?:\.\d+)?)|\bbudget (?:of |is )?\$?(\d+(?:\.\d+)?)\b`)
	destRe   = regexp.MustCompile(`(?i)\b(?:trip|travel|fly|flying|go|going)\s+to\s+([A-Z][A-Za-z]*(?:\s+[A-Z][A-Za-z]*)?)`)
	dateRe   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
)

var dietKeywords = []string{
	"vegetarian", "vegan", "pescatarian", "keto", "paleo",
	"halal", "kosher", "gluten-free", "dairy-free", "high-protein",
}

var spiceKeywords = []string{"mild", "medium", "spicy", "hot", "no spice"}

// ExtractHints scans a free-text query for structured hints. The extraction
// is heuristic and best-effort; agents ask for clarification when required
// fields stay empty.
func ExtractHints(query string) Hints {
	h := Hints{}
	lower := strings.ToLower(query)

	if m := peopleRe.FindStringSubmatch(query); m != nil {
		for _, g := range m[1:] {
			if g != "" {
				if n, err := strconv.Atoi(g); err == nil {
					h.People = n
				}
				break
			}
		}
	}

	if m := budgetRe.FindStringSubmatch(query); m != nil {
		for _, g := range m[1:] {
			if g != "" {
				if f, err := strconv.ParseFloat(g, 64); err == nil {
					h.Budget = f
				}
				break
			}
		}
	}

	if m := destRe.FindStringSubmatch(query); m != nil {
		h.Destination = m[1]
	}

	if dates := dateRe.FindAllString(query, 2); len(dates) > 0 {
		h.StartDate = dates[0]
		if len(dates) > 1 {
			h.EndDate = dates[1]
		}
	}

	for _, kw := range dietKeywords {
		if strings.Contains(lower, kw) {
			h.Diet = kw
			break
		}
	}

	for _, kw := range spiceKeywords {
		if strings.Contains(lower, kw) {
			h.Spice = kw
			break
		}
	}

	return h
}
