package service

import (
	"context"

	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/pkg/events"

	"github.com/google/uuid"
)

// Event types published on the bus.
const (
	EventNoteCreated  = "NOTE_CREATED"
	EventNoteEnriched = "NOTE_ENRICHED"
	EventNoteDeleted  = "NOTE_DELETED"
)

// EventPublisher is satisfied by *nats.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// NoteNotifier pushes note updates to live clients.
type NoteNotifier interface {
	NotifyNote(noteID uuid.UUID, eventType string, data interface{})
}

// announcer fans one note event out to the bus and to live clients. Either
// side may be absent; failures are logged and never fail the request.
type announcer struct {
	events   EventPublisher
	notifier NoteNotifier
	logger   logger.ILogger
}

func (a *announcer) announce(ctx context.Context, eventType string, noteID uuid.UUID, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["note_id"] = noteID.String()

	if a.events != nil {
		if err := a.events.Publish(ctx, events.New(eventType, data)); err != nil {
			a.logger.Warn("NoteEvents", "Failed to publish event", map[string]interface{}{
				"type":  eventType,
				"error": err.Error(),
			})
		}
	}
	if a.notifier != nil {
		a.notifier.NotifyNote(noteID, eventType, data)
	}
}
