package lexical

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Parser flattens Lexical editor JSON to plain text. Blocks are separated by
// blank lines so paragraph boundaries survive for text statistics.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse converts a Lexical JSON document to plain text
func (p *Parser) Parse(jsonContent string) (string, error) {
	var root LexicalRoot
	if err := json.Unmarshal([]byte(jsonContent), &root); err != nil {
		return "", fmt.Errorf("failed to parse lexical json: %w", err)
	}
	if root.Root.Type != TypeRoot {
		return "", fmt.Errorf("lexical document has no root node")
	}

	blocks := make([]string, 0, len(root.Root.Children))
	for _, child := range root.Root.Children {
		var sb strings.Builder
		p.walkNode(child, &sb)
		if block := strings.TrimSpace(sb.String()); block != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n\n"), nil
}

// ParseContent returns the plain text of a Lexical document, or content
// unchanged when it is not one.
func ParseContent(content string) string {
	trimmed := strings.TrimSpace(content)
	if !IsLexical(trimmed) {
		return content
	}

	text, err := NewParser().Parse(trimmed)
	if err != nil {
		return content
	}
	return text
}

// IsLexical reports whether content looks like serialized editor state.
func IsLexical(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), `{"root":`)
}

func (p *Parser) walkNode(node Node, sb *strings.Builder) {
	switch node.Type {
	case TypeText:
		sb.WriteString(node.Text)

	case TypeLineBreak:
		sb.WriteString("\n")

	case TypeList:
		p.handleList(node, sb, 0)

	case TypeTable:
		p.handleTable(node, sb)

	case TypeLink:
		before := sb.Len()
		p.walkChildren(node, sb)
		if sb.Len() == before && node.URL != "" {
			sb.WriteString(node.URL)
		}

	case TypeHorizontalRule:

	default:
		p.walkChildren(node, sb)
	}
}

func (p *Parser) walkChildren(node Node, sb *strings.Builder) {
	for _, child := range node.Children {
		p.walkNode(child, sb)
	}
}

func (p *Parser) handleList(node Node, sb *strings.Builder, depth int) {
	index := 1
	if node.Start > 0 {
		index = node.Start
	}

	for _, child := range node.Children {
		if child.Type != TypeListItem {
			continue
		}

		sb.WriteString(strings.Repeat("  ", depth))
		switch node.ListType {
		case "number":
			fmt.Fprintf(sb, "%d. ", index)
			index++
		case "check":
			if child.Checked {
				sb.WriteString("[x] ")
			} else {
				sb.WriteString("[ ] ")
			}
		default:
			sb.WriteString("- ")
		}

		for _, grandChild := range child.Children {
			if grandChild.Type == TypeList {
				sb.WriteString("\n")
				p.handleList(grandChild, sb, depth+1)
				continue
			}
			p.walkNode(grandChild, sb)
		}
		sb.WriteString("\n")
	}
}

// handleTable writes one line per row with cells separated by " | ".
func (p *Parser) handleTable(node Node, sb *strings.Builder) {
	for _, row := range node.Children {
		if row.Type != TypeTableRow {
			continue
		}

		cells := make([]string, 0, len(row.Children))
		for _, cell := range row.Children {
			var cellSb strings.Builder
			p.walkChildren(cell, &cellSb)
			cells = append(cells, strings.Join(strings.Fields(cellSb.String()), " "))
		}
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString("\n")
	}
}
