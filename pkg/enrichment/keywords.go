package enrichment

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/pkg/enrichment/lexicon"
)

const (
	DefaultMaxKeywords = 10
	// MinRankableTokens is the token count below which text is returned as-is.
	MinRankableTokens = 5
	// MinTermFrequency is the document-frequency floor for scored terms.
	MinTermFrequency = 1
	// FallbackMinWordLength excludes short words from frequency counting.
	FallbackMinWordLength = 3
	minScoredWordLength   = 2
)

var (
	nonLetters       = regexp.MustCompile(`[^a-z\s]`)
	sentenceBoundary = regexp.MustCompile(`[.!?;\n]+`)

	errNoTerms = errors.New("no scorable terms")
)

// CleanText lowercases, strips everything but ASCII letters and whitespace,
// and collapses runs of whitespace.
func CleanText(text string) string {
	cleaned := nonLetters.ReplaceAllString(strings.ToLower(text), "")
	return strings.Join(strings.Fields(cleaned), " ")
}

type KeywordExtractor struct {
	lex            *lexicon.Lexicon
	log            logger.ILogger
	disablePrimary bool
	primary        func(text string, k int) ([]string, error)
}

func NewKeywordExtractor(lex *lexicon.Lexicon, log logger.ILogger, disablePrimary bool) *KeywordExtractor {
	if lex == nil {
		lex = lexicon.Default()
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	e := &KeywordExtractor{lex: lex, log: log, disablePrimary: disablePrimary}
	e.primary = e.rankTfidf
	return e
}

// Extract returns at most k unique keywords in descending importance.
func (e *KeywordExtractor) Extract(text string, k int) ([]string, Tier) {
	if k <= 0 {
		k = DefaultMaxKeywords
	}

	tokens := strings.Fields(CleanText(text))
	if len(tokens) < MinRankableTokens {
		return limit(unique(tokens), k), TierVerbatim
	}

	if !e.disablePrimary {
		keywords, err := e.safePrimary(text, k)
		if err == nil {
			return keywords, TierPrimary
		}
		e.log.Warn("Keywords", "TF-IDF scoring failed, using frequency fallback", map[string]interface{}{"error": err.Error()})
	}

	return e.frequencyFallback(tokens, k), TierFallback
}

func (e *KeywordExtractor) safePrimary(text string, k int) (keywords []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("keyword scorer panicked: %v", r)
		}
	}()
	return e.primary(text, k)
}

type termStats struct {
	tf       int
	df       int
	surfaces map[string]int
	lastDoc  int
}

// rankTfidf treats each sentence as a document so that IDF has something to
// discriminate on, scores unigrams and bigrams, and groups inflections by stem.
func (e *KeywordExtractor) rankTfidf(text string, k int) ([]string, error) {
	var docs [][]string
	for _, segment := range sentenceBoundary.Split(text, -1) {
		if toks := strings.Fields(CleanText(segment)); len(toks) > 0 {
			docs = append(docs, toks)
		}
	}

	terms := make(map[string]*termStats)
	add := func(key, surface string, doc int) {
		st, ok := terms[key]
		if !ok {
			st = &termStats{surfaces: make(map[string]int), lastDoc: -1}
			terms[key] = st
		}
		st.tf++
		st.surfaces[surface]++
		if st.lastDoc != doc {
			st.df++
			st.lastDoc = doc
		}
	}

	for d, toks := range docs {
		for i, tok := range toks {
			if !e.scorable(tok) {
				continue
			}
			stem := lexicon.Stem(tok)
			add(stem, tok, d)

			if i+1 < len(toks) && e.scorable(toks[i+1]) {
				next := toks[i+1]
				add(stem+" "+lexicon.Stem(next), tok+" "+next, d)
			}
		}
	}

	n := float64(len(docs))
	type scored struct {
		term  string
		score float64
	}
	var ranked []scored
	for _, st := range terms {
		if st.df < MinTermFrequency {
			continue
		}
		idf := math.Log((1+n)/(1+float64(st.df))) + 1
		ranked = append(ranked, scored{term: dominantSurface(st.surfaces), score: float64(st.tf) * idf})
	}
	if len(ranked) == 0 {
		return nil, errNoTerms
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].term < ranked[j].term
	})

	keywords := make([]string, 0, k)
	seen := make(map[string]struct{})
	for _, r := range ranked {
		if len(keywords) == k {
			break
		}
		if r.score <= 0 {
			continue
		}
		if _, dup := seen[r.term]; dup {
			continue
		}
		seen[r.term] = struct{}{}
		keywords = append(keywords, r.term)
	}
	return keywords, nil
}

func (e *KeywordExtractor) scorable(tok string) bool {
	return len(tok) >= minScoredWordLength && !e.lex.IsStopword(tok)
}

// frequencyFallback never fails. Ties keep first-occurrence order.
func (e *KeywordExtractor) frequencyFallback(tokens []string, k int) []string {
	counts := make(map[string]int)
	order := []string{}
	for _, tok := range tokens {
		if len(tok) < FallbackMinWordLength || e.lex.IsStopword(tok) {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return limit(order, k)
}

func dominantSurface(surfaces map[string]int) string {
	best, bestCount := "", 0
	for s, c := range surfaces {
		if c > bestCount || (c == bestCount && s < best) {
			best, bestCount = s, c
		}
	}
	return best
}

func unique(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func limit(s []string, k int) []string {
	if len(s) > k {
		return s[:k]
	}
	return s
}
