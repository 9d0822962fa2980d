package handler

import (
	"smart-notes-be/internal/apperror"
	"smart-notes-be/internal/pkg/logger"
	internalWS "smart-notes-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// NoteEventsHandler streams note lifecycle events to websocket clients.
type NoteEventsHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewNoteEventsHandler(hub *internalWS.Hub, log logger.ILogger) *NoteEventsHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &NoteEventsHandler{hub: hub, logger: log}
}

// ServeWs upgrades the request. The optional "note" query parameter narrows
// the stream to a single note; without it the client receives every event.
func (h *NoteEventsHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	topic := internalWS.AllNotes
	if raw := c.Query("note"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperror.InvalidInput("invalid note id %q", raw)
		}
		topic = id.String()
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("NoteEventsHandler", "Starting WebSocket session", map[string]interface{}{"topic": topic})
		internalWS.ServeWs(h.hub, conn, topic)
		h.logger.Info("NoteEventsHandler", "WebSocket session ended", map[string]interface{}{"topic": topic})
	})(c)
}

func (h *NoteEventsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
