package enrichment

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/pkg/enrichment/lexicon"
)

const (
	// DefaultConfidenceThreshold forces neutral below this classifier score.
	DefaultConfidenceThreshold = 0.6
	// SentimentInputLimit is the number of characters sent to the classifier.
	SentimentInputLimit = 500
	// PolarityThreshold splits lexicon polarity into positive/neutral/negative.
	PolarityThreshold = 0.1
)

var wordPattern = regexp.MustCompile(`[a-z]+(?:'[a-z]+)?`)

// Prediction is a raw classifier output.
type Prediction struct {
	Label string
	Score float64
}

// Classifier is a confidence-scored sentiment model.
type Classifier interface {
	Classify(ctx context.Context, text string) (Prediction, error)
}

var labelMapping = map[string]Sentiment{
	"positive": SentimentPositive,
	"negative": SentimentNegative,
	"neutral":  SentimentNeutral,
	"pos":      SentimentPositive,
	"neg":      SentimentNegative,
	"neu":      SentimentNeutral,
	"label_2":  SentimentPositive,
	"label_1":  SentimentNeutral,
	"label_0":  SentimentNegative,
}

// MapLabel normalises model label vocabularies. Unknown labels are neutral.
func MapLabel(label string) Sentiment {
	if s, ok := labelMapping[strings.ToLower(strings.TrimSpace(label))]; ok {
		return s
	}
	return SentimentNeutral
}

type SentimentClassifier struct {
	primary   Classifier
	threshold float64
	lex       *lexicon.Lexicon
	log       logger.ILogger
}

// NewSentimentClassifier accepts a nil primary, in which case every call uses
// the lexicon tier.
func NewSentimentClassifier(primary Classifier, threshold float64, lex *lexicon.Lexicon, log logger.ILogger) *SentimentClassifier {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	if lex == nil {
		lex = lexicon.Default()
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &SentimentClassifier{primary: primary, threshold: threshold, lex: lex, log: log}
}

func (s *SentimentClassifier) Classify(ctx context.Context, text string) (Sentiment, Tier) {
	if s.primary != nil {
		pred, err := s.safeClassify(ctx, TruncateRunes(text, SentimentInputLimit))
		if err == nil {
			if pred.Score < s.threshold {
				return SentimentNeutral, TierPrimary
			}
			return MapLabel(pred.Label), TierPrimary
		}
		s.log.Warn("Sentiment", "Classifier failed, using lexicon fallback", map[string]interface{}{"error": err.Error()})
	}

	return FromPolarity(s.Polarity(text)), TierFallback
}

func (s *SentimentClassifier) safeClassify(ctx context.Context, text string) (pred Prediction, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classifier panicked: %v", r)
		}
	}()
	return s.primary.Classify(ctx, text)
}

// Polarity averages the weights of polarity words in text, in [-1, 1].
// Intensifiers scale the next scored word and negations flip it.
func (s *SentimentClassifier) Polarity(text string) float64 {
	tokens := wordPattern.FindAllString(strings.ToLower(text), -1)

	var sum float64
	var scored int
	intensity := 1.0
	negatedFor := 0

	for _, tok := range tokens {
		if s.lex.IsNegation(tok) {
			negatedFor = lexicon.NegationWindow
			continue
		}
		if f := s.lex.Intensity(tok); f != 1 {
			intensity *= f
			continue
		}

		w, ok := s.lex.Weight(lexicon.Stem(tok))
		if !ok {
			if negatedFor > 0 {
				negatedFor--
			}
			continue
		}

		v := w * intensity
		if negatedFor > 0 {
			v *= lexicon.NegationFactor
		}
		sum += v
		scored++
		intensity = 1
		negatedFor = 0
	}

	if scored == 0 {
		return 0
	}
	p := sum / float64(scored)
	if p > 1 {
		return 1
	}
	if p < -1 {
		return -1
	}
	return p
}

func FromPolarity(p float64) Sentiment {
	switch {
	case p > PolarityThreshold:
		return SentimentPositive
	case p < -PolarityThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// TruncateRunes cuts text to at most n characters without splitting a rune.
func TruncateRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}
