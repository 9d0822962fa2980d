package service

import (
	"context"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"smart-notes-be/internal/model"
	"smart-notes-be/internal/repository/unitofwork"
	"smart-notes-be/pkg/database"
	"smart-notes-be/pkg/enrichment"
	"smart-notes-be/pkg/events"
	"smart-notes-be/pkg/media"
	"smart-notes-be/pkg/models"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const reprocessTopic = "REPROCESS_NOTE"

var (
	pngB64 = base64.StdEncoding.EncodeToString(append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...))
	wavB64 = base64.StdEncoding.EncodeToString(append([]byte("RIFF\x24\x00\x00\x00WAVEfmt "), make([]byte, 32)...))
)

type generatorFunc func(ctx context.Context, text string, maxLength, minLength int) (string, error)

func (f generatorFunc) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	return f(ctx, text, maxLength, minLength)
}

type imageReaderFunc func(ctx context.Context, image []byte, mimeType string) (string, error)

func (f imageReaderFunc) ReadImage(ctx context.Context, image []byte, mimeType string) (string, error) {
	return f(ctx, image, mimeType)
}

type transcriberFunc func(ctx context.Context, audio []byte, mimeType, language string) (string, error)

func (f transcriberFunc) Transcribe(ctx context.Context, audio []byte, mimeType, language string) (string, error) {
	return f(ctx, audio, mimeType, language)
}

type recordedEvent struct {
	Type   string
	NoteID uuid.UUID
}

type recorder struct {
	mu       sync.Mutex
	bus      []string
	notified []recordedEvent
}

func (r *recorder) Publish(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bus = append(r.bus, event.EventType())
	return nil
}

func (r *recorder) NotifyNote(noteID uuid.UUID, eventType string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notified = append(r.notified, recordedEvent{Type: eventType, NoteID: noteID})
}

func (r *recorder) busEvents() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.bus...)
}

func (r *recorder) notifications() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedEvent{}, r.notified...)
}

type harnessOptions struct {
	generator enrichment.Generator
	budget    time.Duration
	ocr       media.ImageReader
	whisper   media.Transcriber
}

type harness struct {
	notes    INoteService
	ai       IAIService
	recorder *recorder
	pubSub   *gochannel.GoChannel
	uow      unitofwork.RepositoryFactory
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()

	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, model.All()...))
	t.Cleanup(func() { _ = database.Close(db) })

	if opts.budget == 0 {
		opts.budget = 5 * time.Second
	}

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	uow := unitofwork.NewRepositoryFactory(db)
	orchestrator := enrichment.NewOrchestrator(enrichment.Options{Generator: opts.generator})
	enricher := NewEnricher(orchestrator, nil, opts.budget, nil)
	imageAdapter := media.NewImageAdapter(nil, opts.ocr, nil, nil)
	audioAdapter := media.NewAudioAdapter(opts.whisper, nil, nil)
	rec := &recorder{}

	return &harness{
		notes: NewNoteService(NoteServiceDeps{
			UowFactory:       uow,
			Enricher:         enricher,
			ImageAdapter:     imageAdapter,
			AudioAdapter:     audioAdapter,
			PublisherService: NewPublisherService(reprocessTopic, pubSub),
			EventPublisher:   rec,
			Notifier:         rec,
		}),
		ai:       NewAIService(enricher, imageAdapter, audioAdapter, models.NewStaticRegistry(opts.generator, nil)),
		recorder: rec,
		pubSub:   pubSub,
		uow:      uow,
	}
}
