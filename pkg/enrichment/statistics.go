package enrichment

import (
	"strings"
	"unicode/utf8"
)

// WordsPerMinute is the reading speed used for reading_time_minutes.
const WordsPerMinute = 200

// ComputeStatistics never fails; empty text yields all zeros.
func ComputeStatistics(text string) Statistics {
	words := len(strings.Fields(text))
	sentences := countNonBlank(strings.Split(text, "."))
	paragraphs := countNonBlank(strings.Split(text, "\n\n"))

	return Statistics{
		WordCount:           words,
		SentenceCount:       sentences,
		ParagraphCount:      paragraphs,
		CharacterCount:      utf8.RuneCountInString(text),
		AvgWordsPerSentence: float64(words) / float64(max(sentences, 1)),
		ReadingTimeMinutes:  float64(words) / WordsPerMinute,
	}
}

func countNonBlank(parts []string) int {
	n := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}
