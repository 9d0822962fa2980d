package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"smart-notes-be/internal/apperror"
	"smart-notes-be/internal/dto"
	"smart-notes-be/internal/entity"
	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/internal/repository/specification"
	"smart-notes-be/internal/repository/unitofwork"
	"smart-notes-be/pkg/enrichment"
	"smart-notes-be/pkg/lexical"
	"smart-notes-be/pkg/media"
	"smart-notes-be/pkg/search"

	"github.com/google/uuid"
)

type INoteService interface {
	Create(ctx context.Context, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.NoteResponse, error)
	List(ctx context.Context, query *dto.ListNotesQuery) (*dto.ListNotesResponse, error)
	Update(ctx context.Context, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AttachImage(ctx context.Context, id uuid.UUID, req *dto.AttachImageRequest) (*dto.AttachMediaResponse, error)
	AttachAudio(ctx context.Context, id uuid.UUID, req *dto.AttachAudioRequest) (*dto.AttachMediaResponse, error)
	Reprocess(ctx context.Context, id uuid.UUID) (*dto.ReprocessResponse, error)
	// Reenrich enriches a stored note now. It returns false when the note no
	// longer exists.
	Reenrich(ctx context.Context, id uuid.UUID) (bool, error)
	Categories(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*dto.NoteStatsResponse, error)
}

type NoteServiceDeps struct {
	UowFactory       unitofwork.RepositoryFactory
	Enricher         *Enricher
	ImageAdapter     *media.ImageAdapter
	AudioAdapter     *media.AudioAdapter
	PublisherService IPublisherService
	EventPublisher   EventPublisher
	Notifier         NoteNotifier
	Logger           logger.ILogger
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	enricher         *Enricher
	imageAdapter     *media.ImageAdapter
	audioAdapter     *media.AudioAdapter
	publisherService IPublisherService
	announcer        *announcer
	logger           logger.ILogger
}

func NewNoteService(deps NoteServiceDeps) INoteService {
	log := deps.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &noteService{
		uowFactory:       deps.UowFactory,
		enricher:         deps.Enricher,
		imageAdapter:     deps.ImageAdapter,
		audioAdapter:     deps.AudioAdapter,
		publisherService: deps.PublisherService,
		announcer:        &announcer{events: deps.EventPublisher, notifier: deps.Notifier, logger: log},
		logger:           log,
	}
}

func (s *noteService) Create(ctx context.Context, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	note := &entity.Note{
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Category: strings.TrimSpace(req.Category),
		Tags:     cleanTags(req.Tags),
	}
	enriched := s.enrich(ctx, note)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.announcer.announce(ctx, EventNoteCreated, note.Id, map[string]interface{}{"title": note.Title})
	s.afterEnrichment(ctx, note, enriched)

	return toNoteResponse(note), nil
}

func (s *noteService) Show(ctx context.Context, id uuid.UUID) (*dto.NoteResponse, error) {
	note, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toNoteResponse(note), nil
}

func (s *noteService) List(ctx context.Context, query *dto.ListNotesQuery) (*dto.ListNotesResponse, error) {
	// Explicit query parameters take precedence over slash filters in search.
	filters := search.ParseQuery(query.Search)
	if query.Category != "" {
		filters.Category = query.Category
	}
	if query.Sentiment != "" {
		filters.Sentiment = query.Sentiment
	}

	specs := []specification.Specification{}
	if filters.Category != "" {
		specs = append(specs, specification.ByCategory{Category: filters.Category})
	}
	if filters.Sentiment != "" {
		specs = append(specs, specification.BySentiment{Sentiment: filters.Sentiment})
	}
	if filters.Title != "" {
		specs = append(specs, specification.TitleContains{Query: filters.Title})
	}
	if q := strings.TrimSpace(filters.Text); q != "" {
		specs = append(specs, specification.NoteSearchQuery{Query: q})
	}
	specs = append(specs,
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: query.Limit, Offset: query.Offset},
	)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	res := &dto.ListNotesResponse{Notes: make([]*dto.NoteResponse, 0, len(notes))}
	for _, n := range notes {
		res.Notes = append(res.Notes, toNoteResponse(n))
	}
	res.Count = len(res.Notes)
	return res, nil
}

func (s *noteService) Update(ctx context.Context, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	note, err := s.find(ctx, req.Id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperror.InvalidInput("title cannot be empty")
		}
		note.Title = title
	}
	if req.Category != nil {
		note.Category = strings.TrimSpace(*req.Category)
	}
	if req.Tags != nil {
		note.Tags = cleanTags(req.Tags)
	}

	enriched := false
	contentChanged := req.Content != nil && *req.Content != note.Content
	if contentChanged {
		note.Content = *req.Content
		enriched = s.enrich(ctx, note)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	if contentChanged {
		s.afterEnrichment(ctx, note, enriched)
	}

	return toNoteResponse(note), nil
}

func (s *noteService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().Delete(ctx, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	s.announcer.announce(ctx, EventNoteDeleted, id, nil)
	return nil
}

func (s *noteService) AttachImage(ctx context.Context, id uuid.UUID, req *dto.AttachImageRequest) (*dto.AttachMediaResponse, error) {
	mode, err := media.ParseMode(req.Mode)
	if err != nil {
		return nil, apperror.InvalidInput("%s", err.Error())
	}
	note, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	result := s.imageAdapter.Extract(ctx, req.Image, mode)
	if result.Error != "" {
		return nil, apperror.InvalidInput("%s", result.Error)
	}

	note.HasImage = true
	note.ImageText = usableOrEmpty(result.Selected)
	return s.saveAttachment(ctx, note, result)
}

func (s *noteService) AttachAudio(ctx context.Context, id uuid.UUID, req *dto.AttachAudioRequest) (*dto.AttachMediaResponse, error) {
	note, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	result := s.audioAdapter.Extract(ctx, req.Audio, req.Language)
	if result.Error != "" {
		return nil, apperror.InvalidInput("%s", result.Error)
	}

	note.HasAudio = true
	note.AudioText = usableOrEmpty(result.Selected)
	return s.saveAttachment(ctx, note, result)
}

func (s *noteService) saveAttachment(ctx context.Context, note *entity.Note, result media.Result) (*dto.AttachMediaResponse, error) {
	enriched := s.enrich(ctx, note)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	s.afterEnrichment(ctx, note, enriched)

	return &dto.AttachMediaResponse{
		Note:          toNoteResponse(note),
		ExtractedText: result.Selected,
		Candidates:    result.Candidates,
	}, nil
}

func (s *noteService) Reprocess(ctx context.Context, id uuid.UUID) (*dto.ReprocessResponse, error) {
	note, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.queueReprocess(ctx, note.Id); err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrUnavailable, err)
	}
	return &dto.ReprocessResponse{Id: note.Id, Queued: true}, nil
}

func (s *noteService) Reenrich(ctx context.Context, id uuid.UUID) (bool, error) {
	note, err := s.uowFactory.NewUnitOfWork(ctx).NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return false, err
	}
	if note == nil {
		return false, nil
	}

	text := note.FullText(lexical.Normalize(note.Content))
	rec, ok := s.enricher.Enrich(ctx, text)
	if !ok {
		return true, fmt.Errorf("enrichment of note %s timed out", id)
	}

	// The note is read again inside the transaction so an edit made while the
	// models ran is not overwritten with enrichment of the old text.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return true, fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = uow.Rollback()
		}
	}()

	current, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return true, err
	}
	if current == nil {
		return false, nil
	}
	if current.FullText(lexical.Normalize(current.Content)) != text {
		s.logger.Info("NoteService", "Note changed during re-enrichment, result discarded", map[string]interface{}{
			"note_id": id.String(),
		})
		return true, nil
	}

	current.ApplyEnrichment(rec)
	if err := uow.NoteRepository().Update(ctx, current); err != nil {
		return true, fmt.Errorf("update note: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return true, fmt.Errorf("commit re-enrichment: %w", err)
	}
	committed = true

	s.announcer.announce(ctx, EventNoteEnriched, current.Id, enrichedPayload(current))
	return true, nil
}

func (s *noteService) Categories(ctx context.Context) ([]string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NoteRepository().Categories(ctx)
}

func (s *noteService) Stats(ctx context.Context) (*dto.NoteStatsResponse, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).NoteRepository()

	total, err := repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	processed, err := repo.Count(ctx, specification.AiProcessed{Processed: true})
	if err != nil {
		return nil, err
	}
	sentiments, err := repo.CountBy(ctx, "sentiment")
	if err != nil {
		return nil, err
	}
	categories, err := repo.CountBy(ctx, "category")
	if err != nil {
		return nil, err
	}

	return &dto.NoteStatsResponse{
		Total:       total,
		AiProcessed: processed,
		Sentiments:  sentiments,
		Categories:  categories,
	}, nil
}

func (s *noteService) find(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.NotFound("note")
	}
	return note, nil
}

// enrich overwrites the enrichment fields of note from its full text. When
// the budget runs out the derived fields are cleared, the note is flagged
// unprocessed, and it gets fresh statistics since those are cheap.
func (s *noteService) enrich(ctx context.Context, note *entity.Note) bool {
	text := note.FullText(lexical.Normalize(note.Content))
	rec, ok := s.enricher.Enrich(ctx, text)
	if ok {
		note.ApplyEnrichment(rec)
		return true
	}
	note.MarkUnprocessed()
	note.Statistics = enrichment.ComputeStatistics(text)
	return false
}

// afterEnrichment announces a finished enrichment or queues a retry.
func (s *noteService) afterEnrichment(ctx context.Context, note *entity.Note, enriched bool) {
	if enriched {
		s.announcer.announce(ctx, EventNoteEnriched, note.Id, enrichedPayload(note))
		return
	}
	if err := s.queueReprocess(ctx, note.Id); err != nil {
		s.logger.Warn("NoteService", "Failed to queue re-enrichment", map[string]interface{}{
			"note_id": note.Id.String(),
			"error":   err.Error(),
		})
	}
}

func (s *noteService) queueReprocess(ctx context.Context, id uuid.UUID) error {
	if s.publisherService == nil {
		return fmt.Errorf("re-enrichment queue is not configured")
	}
	payload, err := json.Marshal(dto.ReprocessNoteMessage{NoteId: id})
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payload)
}

func enrichedPayload(note *entity.Note) map[string]interface{} {
	return map[string]interface{}{
		"title":     note.Title,
		"summary":   note.Summary,
		"keywords":  note.Keywords,
		"sentiment": note.Sentiment,
	}
}

func usableOrEmpty(text string) string {
	if media.Usable(text) {
		return text
	}
	return ""
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func toNoteResponse(n *entity.Note) *dto.NoteResponse {
	return &dto.NoteResponse{
		Id:          n.Id,
		Title:       n.Title,
		Content:     n.Content,
		Summary:     n.Summary,
		Keywords:    nonNilStrings(n.Keywords),
		Sentiment:   n.Sentiment,
		Statistics:  n.Statistics,
		Category:    n.Category,
		Tags:        nonNilStrings(n.Tags),
		AiProcessed: n.AiProcessed,
		HasImage:    n.HasImage,
		HasAudio:    n.HasAudio,
		ImageText:   n.ImageText,
		AudioText:   n.AudioText,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
