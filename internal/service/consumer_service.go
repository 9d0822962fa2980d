package service

import (
	"context"
	"encoding/json"

	"smart-notes-be/internal/dto"
	"smart-notes-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	noteService INoteService
	logger      logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	noteService INoteService,
	log logger.ILogger,
) IConsumerService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		noteService: noteService,
		logger:      log,
	}
}

// Consume re-enriches queued notes until ctx is cancelled.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ReprocessNoteMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.NoteId == uuid.Nil {
		cs.logger.Error("Consumer", "Dropping malformed reprocess message", map[string]interface{}{"message_id": msg.UUID})
		msg.Ack()
		return
	}

	found, err := cs.noteService.Reenrich(ctx, payload.NoteId)
	if !found && err == nil {
		// Deleted since it was queued.
		msg.Ack()
		return
	}
	if err != nil {
		// Not retried; the note stays unprocessed until its next write.
		cs.logger.Warn("Consumer", "Re-enrichment failed", map[string]interface{}{
			"note_id": payload.NoteId.String(),
			"error":   err.Error(),
		})
		msg.Ack()
		return
	}

	cs.logger.Info("Consumer", "Note re-enriched", map[string]interface{}{"note_id": payload.NoteId.String()})
	msg.Ack()
}
