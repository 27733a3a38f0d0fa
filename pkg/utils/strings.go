package utils

import (
	"strings"
	"unicode/utf8"
)

// SplitTags turns "#a #b  #c" into ["#a", "#b", "#c"].
func SplitTags(value string) []string {
	return strings.Fields(value)
}

func JoinTags(tags []string) string {
	return strings.Join(tags, " ")
}

// CountCharacters counts runes, not bytes.
func CountCharacters(s string) int {
	return utf8.RuneCountInString(s)
}

// JoinNonEmpty joins the non-empty parts with sep.
func JoinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
