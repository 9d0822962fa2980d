package utils

import (
	"strings"
	"unicode/utf8"
)

// SplitSentenceChunks splits text on ". " boundaries and packs whole sentences
// into chunks of at most limit characters. A sentence longer than limit gets a
// chunk of its own. Joining the chunks with a single space reproduces text.
func SplitSentenceChunks(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	parts := strings.Split(text, ". ")
	var chunks []string
	var current strings.Builder
	currentLen := 0

	for i, part := range parts {
		sentence := part
		if i < len(parts)-1 {
			sentence += "."
		}
		n := utf8.RuneCountInString(sentence)

		if currentLen > 0 && n > 0 && currentLen+1+n > limit {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
		if currentLen > 0 {
			current.WriteString(" ")
			currentLen++
		}
		current.WriteString(sentence)
		currentLen += n
	}
	if currentLen > 0 || len(chunks) == 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}
