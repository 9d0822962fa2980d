package nats

import (
	"testing"
	"time"

	"smart-notes-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "notes.NOTE_CREATED", Subject("NOTE_CREATED"))
}

func TestEnvelopeCarriesTypeAndTime(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	data, err := encode(events.BaseEvent{Type: "NOTE_ENRICHED", Data: map[string]interface{}{"note_id": "abc"}, OccurredAt: at})
	require.NoError(t, err)

	got, err := decode(data)
	require.NoError(t, err)
	assert.Equal(t, "NOTE_ENRICHED", got.EventType())
	assert.Equal(t, "abc", got.Payload()["note_id"])
	assert.True(t, at.Equal(got.Timestamp()))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := decode([]byte("not json"))
	assert.Error(t, err)
}
