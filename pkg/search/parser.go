package search

import (
	"strings"
)

// Filters holds the slash filters pulled out of a search string and the
// remaining free text.
type Filters struct {
	Category  string
	Sentiment string
	Title     string
	Text      string // matched against title and content
}

// ParseQuery extracts slash commands from the raw query string.
// Supported:
// /cat:<term> OR /in:<term> -> Filter by category
// /mood:<sentiment>         -> Filter by sentiment
// /title:<term>             -> Match the title only
// <text>                    -> Remaining text is the free-text query
//
// A later occurrence of the same command wins. Commands with an empty term
// are kept as text.
func ParseQuery(raw string) Filters {
	filters := Filters{}
	var cleanParts []string

	for _, part := range strings.Fields(raw) {
		switch {
		case takeTerm(part, "/cat:", &filters.Category):
		case takeTerm(part, "/in:", &filters.Category):
		case takeTerm(part, "/mood:", &filters.Sentiment):
		case takeTerm(part, "/title:", &filters.Title):
		default:
			cleanParts = append(cleanParts, part)
		}
	}

	filters.Sentiment = strings.ToLower(filters.Sentiment)
	filters.Text = strings.Join(cleanParts, " ")
	return filters
}

// takeTerm matches prefix case-insensitively and keeps the term as written.
func takeTerm(part, prefix string, dst *string) bool {
	if len(part) < len(prefix) || !strings.EqualFold(part[:len(prefix)], prefix) {
		return false
	}
	term := part[len(prefix):]
	if term == "" {
		return false
	}
	*dst = term
	return true
}
