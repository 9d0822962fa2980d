package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"smart-notes-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
}

func TestRender(t *testing.T) {
	v := sample{Summary: "done", Keywords: []string{"a", "b"}}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, "json", v))
		assert.JSONEq(t, `{"summary":"done","keywords":["a","b"]}`, buf.String())
	})

	t.Run("yaml uses json field names", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, "yaml", v))
		assert.Contains(t, buf.String(), "summary: done")
		assert.Contains(t, buf.String(), "keywords:")
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, render(&bytes.Buffer{}, "xml", v))
	})
}

func TestReadInput(t *testing.T) {
	got, err := readInput(strings.NewReader("from stdin"), nil)
	require.NoError(t, err)
	assert.Equal(t, "from stdin", string(got))

	got, err = readInput(strings.NewReader("dash"), []string{"-"})
	require.NoError(t, err)
	assert.Equal(t, "dash", string(got))

	_, err = readInput(strings.NewReader(""), []string{"/does/not/exist"})
	assert.Error(t, err)
}

func TestEventView(t *testing.T) {
	e := events.BaseEvent{
		Type:       "NOTE_CREATED",
		Data:       map[string]interface{}{"note_id": "n1"},
		OccurredAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	doc := eventView(e)
	assert.Equal(t, "NOTE_CREATED", doc.Type)
	assert.Equal(t, "2025-01-02T03:04:05Z", doc.OccurredAt)
	assert.Equal(t, "n1", doc.Data["note_id"])
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"analyze", "summarize", "capabilities", "image", "audio", "reprocess", "stats", "list", "migrate", "db-check", "watch"} {
		assert.True(t, names[want], want)
	}
}
