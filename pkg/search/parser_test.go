package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Filters
	}{
		{name: "plain text", raw: "quarterly budget", want: Filters{Text: "quarterly budget"}},
		{name: "category keeps case", raw: "/CAT:Work budget", want: Filters{Category: "Work", Text: "budget"}},
		{name: "in alias", raw: "budget /in:ideas", want: Filters{Category: "ideas", Text: "budget"}},
		{name: "mood and title", raw: "/mood:Negative /title:retro", want: Filters{Sentiment: "negative", Title: "retro"}},
		{name: "last wins", raw: "/cat:a /cat:b", want: Filters{Category: "b"}},
		{name: "empty term stays text", raw: "/cat: notes", want: Filters{Text: "/cat: notes"}},
		{name: "text keeps its case", raw: "Kubernetes /cat:ops", want: Filters{Category: "ops", Text: "Kubernetes"}},
		{name: "empty", raw: "   ", want: Filters{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuery(tt.raw))
		})
	}
}
