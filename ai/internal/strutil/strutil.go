// Package strutil provides string utility functions for the ai package.
package strutil

import "strings"

// Truncate truncates a string to a maximum length.
// Uses rune-level truncation to ensure Unicode safety.
// Returns empty string if maxLen <= 0 to prevent slice bounds panic.
func Truncate(s string, maxLen int) string {
	if s == "" || maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// NormalizeItem canonicalizes an ingredient or shopping item name so that
// duplicates across meal-plan days consolidate to one entry: lowercase,
// trimmed, inner whitespace collapsed, trivial plural stripped.
func NormalizeItem(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")

	// Strip a trivial plural suffix. "es" after a sibilant ("tomatoes",
	// "radishes"), otherwise a bare "s" ("carrots"). Words like "hummus"
	// or "couscous" keep their trailing "ss"/"us".
	switch {
	case len(s) > 4 && strings.HasSuffix(s, "oes"):
		s = strings.TrimSuffix(s, "es")
	case len(s) > 4 && (strings.HasSuffix(s, "ches") || strings.HasSuffix(s, "shes")):
		s = strings.TrimSuffix(s, "es")
	case len(s) > 3 && strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss") && !strings.HasSuffix(s, "us"):
		s = strings.TrimSuffix(s, "s")
	}
	return s
}
