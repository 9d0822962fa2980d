package lexical

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var htmlTagPattern = regexp.MustCompile(`(?i)</?(p|div|br|h[1-6]|ul|ol|li|span|strong|em|b|i|u|a|table|tr|td|th|blockquote|pre|code)(\s[^>]*)?/?>`)

var blockElements = map[string]bool{
	"p": true, "div": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "table": true, "blockquote": true, "pre": true, "section": true, "article": true,
}

// IsHTML reports whether content contains common markup tags.
func IsHTML(content string) bool {
	return htmlTagPattern.MatchString(content)
}

// HTMLToText extracts visible text from an HTML fragment. Block elements are
// separated by blank lines, list items and rows by single newlines.
func HTMLToText(content string) (string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	extractText(doc, &sb)
	return tidyLines(sb.String()), nil
}

func extractText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "head":
			return
		case "br":
			sb.WriteString("\n")
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, sb)
	}

	if n.Type == html.ElementNode {
		switch {
		case blockElements[n.Data]:
			sb.WriteString("\n\n")
		case n.Data == "li" || n.Data == "tr":
			sb.WriteString("\n")
		case n.Data == "td" || n.Data == "th":
			sb.WriteString(" ")
		}
	}
}

// tidyLines collapses runs of spaces inside lines and runs of blank lines
// into a single paragraph break.
func tidyLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// Normalize flattens rich note content (Lexical JSON or HTML) to plain text.
// Plain text and content that fails to parse are returned unchanged.
func Normalize(content string) string {
	if IsLexical(content) {
		return ParseContent(content)
	}
	if IsHTML(content) {
		if text, err := HTMLToText(content); err == nil {
			return text
		}
	}
	return content
}
