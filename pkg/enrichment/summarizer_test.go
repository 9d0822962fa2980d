package enrichment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(w, " ")
}

func TestAdaptiveBounds(t *testing.T) {
	defaults := Bounds{MaxLength: 150, MinLength: 30}

	tests := []struct {
		words int
		want  Bounds
	}{
		{words: 20, want: Bounds{MaxLength: 15, MinLength: 5}},
		{words: 40, want: Bounds{MaxLength: 20, MinLength: 10}},
		{words: 49, want: Bounds{MaxLength: 24, MinLength: 12}},
		{words: 50, want: Bounds{MaxLength: 25, MinLength: 10}},
		{words: 60, want: Bounds{MaxLength: 30, MinLength: 10}},
		{words: 90, want: Bounds{MaxLength: 45, MinLength: 15}},
		{words: 100, want: defaults},
		{words: 500, want: defaults},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.words), func(t *testing.T) {
			assert.Equal(t, tt.want, AdaptiveBounds(tt.words, defaults))
		})
	}
}

func TestExtractiveSummary(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "two sentences kept whole", text: "One thing. Two things.", want: "One thing. Two things."},
		{name: "four sentences", text: "A one. B two. C three. D four.", want: "A one. B two."},
		{name: "five sentences", text: "A. B. C. D. E.", want: "A. B."},
		{name: "six sentences", text: "A. B. C. D. E. F.", want: "A. B. C."},
		{name: "empty fragments dropped", text: "A... B. . C. D", want: "A. B."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractiveSummary(tt.text))
		})
	}
}

func TestSummarizer_Passthrough(t *testing.T) {
	gen := &stubGenerator{fn: func(context.Context, string, int) (string, error) {
		t.Fatal("generator must not be called for short input")
		return "", nil
	}}
	s := NewSummarizer(gen, Bounds{}, nil)

	for _, in := range []string{"Short note.", words(14), ""} {
		got, tier := s.Summarize(context.Background(), in, Bounds{})
		assert.Equal(t, in, got)
		assert.Equal(t, TierPassthrough, tier)
	}
}

func TestSummarizer_Primary(t *testing.T) {
	gen := &stubGenerator{fn: func(context.Context, string, int) (string, error) {
		return "  a generated summary  ", nil
	}}
	s := NewSummarizer(gen, Bounds{}, nil)

	got, tier := s.Summarize(context.Background(), words(20), Bounds{})

	assert.Equal(t, "a generated summary", got)
	assert.Equal(t, TierPrimary, tier)
	require.Len(t, gen.calls, 1)
	assert.Equal(t, Bounds{MaxLength: 15, MinLength: 5}, gen.calls[0])
}

func TestSummarizer_Fallback(t *testing.T) {
	text := "First sentence has several words in it. Second sentence is here too. Third one closes. Fourth never shows."
	want := "First sentence has several words in it. Second sentence is here too."

	tests := []struct {
		name string
		gen  Generator
	}{
		{name: "no generator"},
		{name: "generator error", gen: &stubGenerator{fn: func(context.Context, string, int) (string, error) {
			return "", errors.New("model offline")
		}}},
		{name: "empty output", gen: &stubGenerator{fn: func(context.Context, string, int) (string, error) {
			return "   ", nil
		}}},
		{name: "generator panic", gen: &stubGenerator{fn: func(context.Context, string, int) (string, error) {
			panic("tensor shape mismatch")
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSummarizer(tt.gen, Bounds{}, nil)

			got, tier := s.Summarize(context.Background(), text, Bounds{})
			assert.Equal(t, want, got)
			assert.Equal(t, TierFallback, tier)
		})
	}
}

func longText() string {
	var sb strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&sb, "Sentence number %d talks about the quarterly planning review in detail. ", i)
	}
	return strings.TrimSpace(sb.String())
}

func TestSummarizer_Chunked(t *testing.T) {
	text := longText()
	require.Greater(t, len(text), ChunkCharLimit)

	gen := &stubGenerator{fn: func(_ context.Context, chunk string, call int) (string, error) {
		if call == 1 {
			return "", errors.New("chunk too long")
		}
		return fmt.Sprintf("S%d", call), nil
	}}
	s := NewSummarizer(gen, Bounds{}, nil)

	got, tier := s.Summarize(context.Background(), text, Bounds{})

	require.GreaterOrEqual(t, len(gen.inputs), 3)
	assert.Equal(t, TierPrimary, tier)
	assert.True(t, strings.HasPrefix(got, "S0 "))
	assert.Contains(t, got, ExtractiveSummary(gen.inputs[1]))
	assert.Equal(t, text, strings.Join(gen.inputs, " "), "every sentence is sent exactly once")
	for _, b := range gen.calls {
		assert.Equal(t, Bounds{MaxLength: 150, MinLength: 30}, b)
	}
}

func TestSummarizer_ChunkedAllFail(t *testing.T) {
	text := longText()
	gen := &stubGenerator{fn: func(context.Context, string, int) (string, error) {
		return "", errors.New("offline")
	}}
	s := NewSummarizer(gen, Bounds{}, nil)

	got, tier := s.Summarize(context.Background(), text, Bounds{})

	assert.Equal(t, TierFallback, tier)
	assert.NotEmpty(t, got)
}
