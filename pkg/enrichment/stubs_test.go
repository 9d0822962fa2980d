package enrichment

import (
	"context"
	"sync"
)

type stubGenerator struct {
	mu     sync.Mutex
	calls  []Bounds
	inputs []string
	fn     func(ctx context.Context, text string, call int) (string, error)
}

func (g *stubGenerator) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, Bounds{MaxLength: maxLength, MinLength: minLength})
	g.inputs = append(g.inputs, text)
	call := len(g.calls) - 1
	g.mu.Unlock()
	return g.fn(ctx, text, call)
}

type stubClassifier struct {
	mu       sync.Mutex
	received string
	fn       func(ctx context.Context, text string) (Prediction, error)
}

func (c *stubClassifier) Classify(ctx context.Context, text string) (Prediction, error) {
	c.mu.Lock()
	c.received = text
	c.mu.Unlock()
	return c.fn(ctx, text)
}

func fixedPrediction(label string, score float64) *stubClassifier {
	return &stubClassifier{fn: func(context.Context, string) (Prediction, error) {
		return Prediction{Label: label, Score: score}, nil
	}}
}
