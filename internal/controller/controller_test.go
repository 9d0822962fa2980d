package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smart-notes-be/internal/model"
	"smart-notes-be/internal/pkg/serverutils"
	"smart-notes-be/internal/repository/unitofwork"
	"smart-notes-be/internal/service"
	"smart-notes-be/pkg/database"
	"smart-notes-be/pkg/enrichment"
	"smart-notes-be/pkg/media"
	"smart-notes-be/pkg/models"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const longText = "The team reviewed the roadmap for the next quarter. Everyone agreed the launch plan is solid and the budget is approved."

type envelope struct {
	Status  string            `json:"status"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func newTestApp(t *testing.T, ping Pinger) *fiber.App {
	t.Helper()

	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, model.All()...))
	t.Cleanup(func() { _ = database.Close(db) })

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	enricher := service.NewEnricher(enrichment.NewOrchestrator(enrichment.Options{}), nil, 5*time.Second, nil)
	imageAdapter := media.NewImageAdapter(nil, nil, nil, nil)
	audioAdapter := media.NewAudioAdapter(nil, nil, nil)
	registry := models.NewStaticRegistry(nil, nil)

	noteService := service.NewNoteService(service.NoteServiceDeps{
		UowFactory:       unitofwork.NewRepositoryFactory(db),
		Enricher:         enricher,
		ImageAdapter:     imageAdapter,
		AudioAdapter:     audioAdapter,
		PublisherService: service.NewPublisherService("REPROCESS_NOTE", pubSub),
	})
	aiService := service.NewAIService(enricher, imageAdapter, audioAdapter, registry)

	if ping == nil {
		ping = func() error { return nil }
	}

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler})
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewNoteController(noteService).RegisterRoutes(api)
	NewAIController(aiService).RegisterRoutes(api)
	NewHealthController(ping, registry).RegisterRoutes(api)
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

type noteBody struct {
	Id          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Keywords    []string  `json:"keywords"`
	Sentiment   string    `json:"sentiment"`
	Category    string    `json:"category"`
	AiProcessed bool      `json:"ai_processed"`
}

func createNote(t *testing.T, app *fiber.App, title, category string) noteBody {
	t.Helper()
	status, env := call(t, app, "POST", "/api/notes", map[string]interface{}{
		"title":    title,
		"content":  longText,
		"category": category,
	})
	require.Equal(t, fiber.StatusCreated, status)
	var note noteBody
	decodeData(t, env, &note)
	return note
}

func TestNoteController_Create(t *testing.T) {
	app := newTestApp(t, nil)

	t.Run("enriches and returns 201", func(t *testing.T) {
		status, env := call(t, app, "POST", "/api/notes", map[string]interface{}{
			"title":   "Roadmap",
			"content": longText,
			"tags":    []string{"planning"},
		})

		require.Equal(t, fiber.StatusCreated, status)
		assert.Equal(t, serverutils.StatusSuccess, env.Status)
		assert.Equal(t, fiber.StatusCreated, env.Code)

		var note noteBody
		decodeData(t, env, &note)
		assert.NotEqual(t, uuid.Nil, note.Id)
		assert.True(t, note.AiProcessed)
		assert.NotEmpty(t, note.Summary)
		assert.NotEmpty(t, note.Keywords)
		assert.Equal(t, "general", note.Category)
	})

	t.Run("missing fields are reported per field", func(t *testing.T) {
		status, env := call(t, app, "POST", "/api/notes", map[string]interface{}{"content": "x"})

		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, serverutils.StatusError, env.Status)
		assert.Contains(t, env.Errors, "title")
	})

	t.Run("malformed body", func(t *testing.T) {
		status, _ := call(t, app, "POST", "/api/notes", "{not json")
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestNoteController_ShowUpdateDelete(t *testing.T) {
	app := newTestApp(t, nil)
	note := createNote(t, app, "Original", "work")
	path := "/api/notes/" + note.Id.String()

	status, env := call(t, app, "GET", path, nil)
	require.Equal(t, fiber.StatusOK, status)
	var shown noteBody
	decodeData(t, env, &shown)
	assert.Equal(t, "Original", shown.Title)

	status, env = call(t, app, "PUT", path, map[string]interface{}{"title": "Renamed"})
	require.Equal(t, fiber.StatusOK, status)
	var updated noteBody
	decodeData(t, env, &updated)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, shown.Summary, updated.Summary)

	status, _ = call(t, app, "DELETE", path, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, env = call(t, app, "GET", path, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, serverutils.StatusError, env.Status)
}

func TestNoteController_BadIDs(t *testing.T) {
	app := newTestApp(t, nil)

	status, _ := call(t, app, "GET", "/api/notes/not-a-uuid", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = call(t, app, "GET", "/api/notes/"+uuid.NewString(), nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call(t, app, "POST", "/api/notes/"+uuid.NewString()+"/reprocess", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestNoteController_ListAndAggregates(t *testing.T) {
	app := newTestApp(t, nil)
	createNote(t, app, "One", "work")
	createNote(t, app, "Two", "work")
	createNote(t, app, "Three", "ideas")

	status, env := call(t, app, "GET", "/api/notes?category=work", nil)
	require.Equal(t, fiber.StatusOK, status)
	var list struct {
		Notes []noteBody `json:"notes"`
		Count int        `json:"count"`
	}
	decodeData(t, env, &list)
	assert.Equal(t, 2, list.Count)
	assert.Len(t, list.Notes, 2)

	status, env = call(t, app, "GET", "/api/notes?sentiment=happy", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "sentiment")

	status, env = call(t, app, "GET", "/api/notes/categories", nil)
	require.Equal(t, fiber.StatusOK, status)
	var categories []string
	decodeData(t, env, &categories)
	assert.Equal(t, []string{"ideas", "work"}, categories)

	status, env = call(t, app, "GET", "/api/notes/stats", nil)
	require.Equal(t, fiber.StatusOK, status)
	var stats struct {
		Total       int64            `json:"total"`
		AiProcessed int64            `json:"ai_processed"`
		Categories  map[string]int64 `json:"categories"`
	}
	decodeData(t, env, &stats)
	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 3, stats.AiProcessed)
	assert.EqualValues(t, 2, stats.Categories["work"])
}

func TestNoteController_Reprocess(t *testing.T) {
	app := newTestApp(t, nil)
	note := createNote(t, app, "Queued", "work")

	status, env := call(t, app, "POST", "/api/notes/"+note.Id.String()+"/reprocess", nil)

	assert.Equal(t, fiber.StatusAccepted, status)
	assert.Equal(t, fiber.StatusAccepted, env.Code)
}

func TestNoteController_AttachImageRejectsGarbage(t *testing.T) {
	app := newTestApp(t, nil)
	note := createNote(t, app, "Whiteboard", "work")
	path := "/api/notes/" + note.Id.String() + "/image"

	status, env := call(t, app, "POST", path, map[string]interface{}{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "image")

	status, _ = call(t, app, "POST", path, map[string]interface{}{"image": "@@not-base64@@"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = call(t, app, "POST", path, map[string]interface{}{"image": "aGVsbG8=", "mode": "sketch"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "mode")
}

func TestAIController(t *testing.T) {
	app := newTestApp(t, nil)

	t.Run("analyze rejects short text", func(t *testing.T) {
		status, _ := call(t, app, "POST", "/api/ai/analyze", map[string]interface{}{"text": "too short"})
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("analyze", func(t *testing.T) {
		status, env := call(t, app, "POST", "/api/ai/analyze", map[string]interface{}{"text": longText})
		require.Equal(t, fiber.StatusOK, status)

		var rec struct {
			Summary   string   `json:"summary"`
			Keywords  []string `json:"keywords"`
			Sentiment string   `json:"sentiment"`
		}
		decodeData(t, env, &rec)
		assert.NotEmpty(t, rec.Summary)
		assert.NotEmpty(t, rec.Keywords)
		assert.Contains(t, []string{"positive", "negative", "neutral"}, rec.Sentiment)
	})

	t.Run("summarize bounds", func(t *testing.T) {
		status, _ := call(t, app, "POST", "/api/ai/summarize", map[string]interface{}{
			"text": longText, "max_length": 10, "min_length": 20,
		})
		assert.Equal(t, fiber.StatusBadRequest, status)

		status, env := call(t, app, "POST", "/api/ai/summarize", map[string]interface{}{"text": longText})
		require.Equal(t, fiber.StatusOK, status)
		var res struct {
			Summary string `json:"summary"`
			Tier    string `json:"tier"`
		}
		decodeData(t, env, &res)
		assert.NotEmpty(t, res.Summary)
		assert.Equal(t, string(enrichment.TierFallback), res.Tier)
	})

	t.Run("process image reports decode failures in the body", func(t *testing.T) {
		status, env := call(t, app, "POST", "/api/ai/process-image", map[string]interface{}{"image": "@@@"})
		require.Equal(t, fiber.StatusOK, status)
		var res struct {
			Error    string `json:"error"`
			Analysis any    `json:"analysis"`
		}
		decodeData(t, env, &res)
		assert.NotEmpty(t, res.Error)
		assert.Nil(t, res.Analysis)
	})

	t.Run("capabilities", func(t *testing.T) {
		status, env := call(t, app, "GET", "/api/ai/capabilities", nil)
		require.Equal(t, fiber.StatusOK, status)
		var caps []struct {
			Name  string `json:"name"`
			Ready bool   `json:"ready"`
		}
		decodeData(t, env, &caps)
		assert.Len(t, caps, 2)
	})
}

func TestHealthController(t *testing.T) {
	t.Run("healthy with fallback models", func(t *testing.T) {
		app := newTestApp(t, nil)

		status, env := call(t, app, "GET", "/api/health", nil)
		require.Equal(t, fiber.StatusOK, status)
		var res struct {
			Status   string            `json:"status"`
			Services map[string]string `json:"services"`
		}
		decodeData(t, env, &res)
		assert.Equal(t, "healthy", res.Status)
		assert.Equal(t, statusFallback, res.Services[models.CapSummarizer])
	})

	t.Run("database down", func(t *testing.T) {
		app := newTestApp(t, func() error { return errors.New("connection refused") })

		status, env := call(t, app, "GET", "/api/health", nil)
		assert.Equal(t, fiber.StatusServiceUnavailable, status)
		assert.Equal(t, serverutils.StatusError, env.Status)
	})
}
