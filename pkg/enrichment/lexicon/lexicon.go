// Package lexicon holds the word lists used by the heuristic keyword and
// sentiment tiers. Polarity words are matched by Snowball stem so that
// "loved", "loving" and "loves" all score like "love".
package lexicon

import (
	"fmt"
	"os"
	"strings"

	"github.com/kljensen/snowball"
	"gopkg.in/yaml.v3"
)

const (
	// NegationFactor flips and dampens a scored word preceded by a negation.
	NegationFactor = -0.5
	// NegationWindow is how many tokens a negation stays armed for.
	NegationWindow = 3
)

type Lexicon struct {
	stopwords    map[string]struct{}
	polarity     map[string]float64 // stem -> weight in [-1, 1]
	negations    map[string]struct{}
	intensifiers map[string]float64
}

// File is the YAML shape accepted by LoadFile.
type File struct {
	Replace      bool               `yaml:"replace"`
	Stopwords    []string           `yaml:"stopwords"`
	Positive     []string           `yaml:"positive"`
	Negative     []string           `yaml:"negative"`
	Weights      map[string]float64 `yaml:"weights"`
	Negations    []string           `yaml:"negations"`
	Intensifiers map[string]float64 `yaml:"intensifiers"`
}

// Default returns the built-in English lexicon.
func Default() *Lexicon {
	l := empty()
	l.apply(File{
		Stopwords:    defaultStopwords,
		Positive:     defaultPositive,
		Negative:     defaultNegative,
		Weights:      defaultWeights,
		Negations:    defaultNegations,
		Intensifiers: defaultIntensifiers,
	})
	return l
}

// LoadFile merges a YAML lexicon onto the defaults, or replaces them when the
// file sets replace: true.
func LoadFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}

	l := Default()
	if f.Replace {
		l = empty()
	}
	l.apply(f)
	return l, nil
}

func empty() *Lexicon {
	return &Lexicon{
		stopwords:    make(map[string]struct{}),
		polarity:     make(map[string]float64),
		negations:    make(map[string]struct{}),
		intensifiers: make(map[string]float64),
	}
}

func (l *Lexicon) apply(f File) {
	for _, w := range f.Stopwords {
		l.stopwords[normalize(w)] = struct{}{}
	}
	for _, w := range f.Positive {
		l.polarity[Stem(w)] = 0.5
	}
	for _, w := range f.Negative {
		l.polarity[Stem(w)] = -0.5
	}
	for w, weight := range f.Weights {
		l.polarity[Stem(w)] = clamp(weight)
	}
	for _, w := range f.Negations {
		l.negations[normalize(w)] = struct{}{}
	}
	for w, factor := range f.Intensifiers {
		l.intensifiers[normalize(w)] = factor
	}
}

func (l *Lexicon) IsStopword(word string) bool {
	_, ok := l.stopwords[word]
	return ok
}

// Weight looks a stem up in the polarity table.
func (l *Lexicon) Weight(stem string) (float64, bool) {
	w, ok := l.polarity[stem]
	return w, ok
}

func (l *Lexicon) IsNegation(word string) bool {
	if strings.HasSuffix(word, "n't") {
		return true
	}
	_, ok := l.negations[word]
	return ok
}

// Intensity returns the multiplier for an intensifier, or 1.
func (l *Lexicon) Intensity(word string) float64 {
	if f, ok := l.intensifiers[word]; ok {
		return f
	}
	return 1
}

func (l *Lexicon) StopwordCount() int { return len(l.stopwords) }

// Stem reduces a lowercase English word to its Snowball stem. Words the
// stemmer rejects are returned unchanged.
func Stem(word string) string {
	word = normalize(word)
	stemmed, err := snowball.Stem(word, "english", true)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}

func normalize(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
