package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"smart-notes-be/internal/config"
	"smart-notes-be/internal/controller"
	"smart-notes-be/internal/handler"
	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/internal/repository/memory"
	"smart-notes-be/internal/repository/unitofwork"
	"smart-notes-be/internal/service"
	"smart-notes-be/internal/websocket"
	"smart-notes-be/pkg/database"
	"smart-notes-be/pkg/enrichment"
	"smart-notes-be/pkg/enrichment/lexicon"
	"smart-notes-be/pkg/media"
	"smart-notes-be/pkg/models"
	pktNats "smart-notes-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NoteController    controller.INoteController
	AIController      controller.IAIController
	HealthController  controller.IHealthController
	NoteEventsHandler *handler.NoteEventsHandler

	// Background services, started by main.
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub

	// Exposed for the CLI, which drives services without HTTP.
	NoteService service.INoteService
	AIService   service.IAIService
	Registry    *models.Registry

	closers []func() error
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) *Container {
	c := &Container{}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	aiLogger := logger.NewIsolatedLogger(cfg.App.AiLogFilePath)

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		logger.NewWatermillAdapter(sysLogger),
	)
	c.closers = append(c.closers, pubSub.Close)

	// 3. Models
	registry := models.NewRegistry(ctx, cfg, aiLogger)
	c.Registry = registry
	c.closers = append(c.closers, registry.Close)

	lex := lexicon.Default()
	if cfg.Ai.LexiconPath != "" {
		loaded, err := lexicon.LoadFile(cfg.Ai.LexiconPath)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to load lexicon, using built-in", map[string]interface{}{
				"path":  cfg.Ai.LexiconPath,
				"error": err.Error(),
			})
		} else {
			lex = loaded
		}
	}

	orchestrator := enrichment.NewOrchestrator(enrichment.Options{
		Generator:             registry.Generator,
		Classifier:            registry.Classifier,
		Lexicon:               lex,
		Logger:                aiLogger,
		MaxKeywords:           cfg.Ai.MaxKeywords,
		Bounds:                enrichment.Bounds{MaxLength: cfg.Ai.SummaryMaxLength, MinLength: cfg.Ai.SummaryMinLength},
		ConfidenceThreshold:   cfg.Ai.SentimentThreshold,
		DisableKeywordScoring: cfg.Ai.DisableKeywordTfidf,
	})

	// 4. Infrastructure
	rdb := newRedis(ctx, cfg.App.RedisURL, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, rdb.Close)
	}

	cache := memory.NewEnrichmentCache(cfg.Ai.CacheTTL, cacheSignature(registry.Capabilities(), cfg), rdb, aiLogger)
	enricher := service.NewEnricher(orchestrator, cache, cfg.Ai.EnrichmentTimeout, aiLogger)

	imageAdapter := media.NewImageAdapter(registry.Captioner, registry.OCR, registry.Document, aiLogger)
	audioAdapter := media.NewAudioAdapter(registry.Whisper, registry.Speech, aiLogger)

	// NATS is optional. A nil *Publisher must not end up inside the interface.
	var eventPublisher service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}

	// WebSocket Hub
	wsHub := websocket.NewHub(rdb, sysLogger)
	c.WebSocketHub = wsHub

	// 5. Services
	publisherService := service.NewPublisherService(cfg.App.ReprocessTopic, pubSub)
	noteService := service.NewNoteService(service.NoteServiceDeps{
		UowFactory:       uowFactory,
		Enricher:         enricher,
		ImageAdapter:     imageAdapter,
		AudioAdapter:     audioAdapter,
		PublisherService: publisherService,
		EventPublisher:   eventPublisher,
		Notifier:         wsHub,
		Logger:           sysLogger,
	})
	aiService := service.NewAIService(enricher, imageAdapter, audioAdapter, registry)
	c.NoteService = noteService
	c.AIService = aiService

	c.ConsumerService = service.NewConsumerService(pubSub, cfg.App.ReprocessTopic, noteService, sysLogger)

	// 6. Controllers
	c.NoteController = controller.NewNoteController(noteService)
	c.AIController = controller.NewAIController(aiService)
	c.HealthController = controller.NewHealthController(func() error { return database.Ping(db) }, registry)
	c.NoteEventsHandler = handler.NewNoteEventsHandler(wsHub, sysLogger)

	return c
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func newRedis(ctx context.Context, url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("Bootstrap", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Bootstrap", "Failed to connect to Redis, continuing without it", map[string]interface{}{"error": err.Error()})
		rdb.Close()
		return nil
	}
	return rdb
}

// cacheSignature changes whenever a cached record could differ for the same
// text: another model tier or other tuning knobs.
func cacheSignature(caps []models.Capability, cfg *config.Config) string {
	parts := make([]string, 0, len(caps)+1)
	for _, c := range caps {
		parts = append(parts, c.Name+"="+c.Tier)
	}
	sort.Strings(parts)
	parts = append(parts, fmt.Sprintf("kw=%d,th=%.2f,sum=%d/%d,tfidf=%t,lex=%s",
		cfg.Ai.MaxKeywords, cfg.Ai.SentimentThreshold,
		cfg.Ai.SummaryMaxLength, cfg.Ai.SummaryMinLength,
		!cfg.Ai.DisableKeywordTfidf, cfg.Ai.LexiconPath))
	return strings.Join(parts, ";")
}
