package enrichment

// Sentiment is the coarse polarity attached to a note.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// Tier names the degradation level a field was produced at.
type Tier string

const (
	TierPrimary     Tier = "primary"
	TierFallback    Tier = "fallback"
	TierPassthrough Tier = "passthrough" // input returned as-is
	TierVerbatim    Tier = "verbatim"    // too few tokens to rank
	TierDefault     Tier = "default"     // component crashed, zero value used
)

type Statistics struct {
	WordCount           int     `json:"word_count"`
	SentenceCount       int     `json:"sentence_count"`
	ParagraphCount      int     `json:"paragraph_count"`
	CharacterCount      int     `json:"character_count"`
	AvgWordsPerSentence float64 `json:"avg_words_per_sentence"`
	ReadingTimeMinutes  float64 `json:"reading_time_minutes"`
}

type Tiers struct {
	Summary   Tier `json:"summary"`
	Keywords  Tier `json:"keywords"`
	Sentiment Tier `json:"sentiment"`
}

// Record is the derived metadata for one piece of text. It is built once and
// never mutated afterwards.
type Record struct {
	Summary    string     `json:"summary"`
	Keywords   []string   `json:"keywords"`
	Sentiment  Sentiment  `json:"sentiment"`
	Statistics Statistics `json:"statistics"`
	Tiers      Tiers      `json:"tiers"`
}
