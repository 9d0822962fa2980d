package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{"root":{"type":"root","children":[
 {"type":"heading","children":[{"type":"text","text":"Weekly sync"}]},
 {"type":"paragraph","children":[{"type":"text","text":"We shipped the "},{"type":"text","text":"release","format":1},{"type":"text","text":"."}]},
 {"type":"list","listType":"number","children":[
   {"type":"listitem","children":[{"type":"text","text":"Fix login"}]},
   {"type":"listitem","children":[{"type":"text","text":"Update docs"}]}
 ]},
 {"type":"list","listType":"check","children":[
   {"type":"listitem","checked":true,"children":[{"type":"text","text":"Book room"}]}
 ]},
 {"type":"paragraph","children":[{"type":"link","url":"https://example.com","children":[{"type":"text","text":"the board"}]}]},
 {"type":"paragraph","children":[]},
 {"type":"table","children":[
   {"type":"tablerow","children":[
     {"type":"tablecell","children":[{"type":"paragraph","children":[{"type":"text","text":"Owner"}]}]},
     {"type":"tablecell","children":[{"type":"paragraph","children":[{"type":"text","text":"Task"}]}]}
   ]}
 ]}
]}}`

func TestParser_Parse(t *testing.T) {
	got, err := NewParser().Parse(sampleDoc)
	require.NoError(t, err)

	want := "Weekly sync\n\n" +
		"We shipped the release.\n\n" +
		"1. Fix login\n2. Update docs\n\n" +
		"[x] Book room\n\n" +
		"the board\n\n" +
		"Owner | Task"
	assert.Equal(t, want, got)
}

func TestParser_ParseErrors(t *testing.T) {
	_, err := NewParser().Parse(`{"root":`)
	assert.Error(t, err)

	_, err = NewParser().Parse(`{"root":{"type":"paragraph"}}`)
	assert.Error(t, err)
}

func TestParseContent(t *testing.T) {
	assert.Equal(t, "plain text", ParseContent("plain text"))
	assert.Equal(t, `{"root": broken`, ParseContent(`{"root": broken`))
	assert.Equal(t, "hi", ParseContent(`{"root":{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","text":"hi"}]}]}}`))
}

func TestHTMLToText(t *testing.T) {
	got, err := HTMLToText(`<h1>Title</h1><p>First   line<br>second line</p><script>alert(1)</script><ul><li>one</li><li>two</li></ul>`)
	require.NoError(t, err)

	assert.Equal(t, "Title\n\nFirst line\nsecond line\n\none\ntwo", got)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Buy milk. 3 < 5 is true.", want: "Buy milk. 3 < 5 is true."},
		{name: "html", in: "<p>Hello <strong>world</strong></p>", want: "Hello world"},
		{name: "lexical", in: `{"root":{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","text":"From editor"}]}]}}`, want: "From editor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
