package lexical

// LexicalRoot is the top-level editor state document
type LexicalRoot struct {
	Root Node `json:"root"`
}

// Node represents any node in the Lexical tree. Only the fields needed to
// recover the written text are decoded.
type Node struct {
	Type     string `json:"type"`
	Children []Node `json:"children,omitempty"`

	// Text specific
	Text string `json:"text,omitempty"`

	// Link specific
	URL string `json:"url,omitempty"`

	// List specific
	ListType string `json:"listType,omitempty"` // check, bullet, number
	Start    int    `json:"start,omitempty"`

	// ListItem specific
	Checked bool `json:"checked,omitempty"`
}

// Block level node types. Each one ends a line in the flattened text.
const (
	TypeRoot           = "root"
	TypeParagraph      = "paragraph"
	TypeHeading        = "heading"
	TypeQuote          = "quote"
	TypeCode           = "code"
	TypeText           = "text"
	TypeLineBreak      = "linebreak"
	TypeList           = "list"
	TypeListItem       = "listitem"
	TypeTable          = "table"
	TypeTableRow       = "tablerow"
	TypeLink           = "link"
	TypeHorizontalRule = "horizontalrule"
)
