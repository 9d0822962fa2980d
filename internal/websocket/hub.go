package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"smart-notes-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// AllNotes is the topic of clients that follow every note.
	AllNotes = "*"

	clusterChannel = "smart_notes:note_events"
)

// Message is what clients receive.
type Message struct {
	Type   string      `json:"type"`
	NoteID string      `json:"note_id"`
	Data   interface{} `json:"data,omitempty"`
}

type clusterEnvelope struct {
	Origin  string          `json:"origin"`
	Topic   string          `json:"topic"`
	Message json.RawMessage `json:"message"`
}

type Hub struct {
	// topic (note id or AllNotes) -> clients
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	// closed when Run returns
	done chan struct{}

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out, optional.
	rdb *redis.Client
	// instance tag so redis echoes of our own messages are skipped
	origin string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		origin:     uuid.NewString(),
		logger:     log,
	}
}

// Run serves registrations until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.Topic] = append(h.clients[client.Topic], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"topic": client.Topic})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// Register adds client to the hub. It returns false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes client. After the hub has stopped it is a no-op, since
// shutdown already closed every Send channel.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.Topic]
	for i, c := range clients {
		if c == client {
			h.clients[client.Topic] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.Topic]) == 0 {
		delete(h.clients, client.Topic)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for topic, clients := range h.clients {
		for _, c := range clients {
			close(c.Send)
		}
		delete(h.clients, topic)
	}
}

// NotifyNote delivers an event to followers of the note and of all notes, on
// this instance and, through redis, on the others.
func (h *Hub) NotifyNote(noteID uuid.UUID, eventType string, data interface{}) {
	payload, err := json.Marshal(Message{Type: eventType, NoteID: noteID.String(), Data: data})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode message", map[string]interface{}{"error": err.Error()})
		return
	}

	topic := noteID.String()
	h.deliver(topic, payload)

	if h.rdb != nil {
		envelope, _ := json.Marshal(clusterEnvelope{Origin: h.origin, Topic: topic, Message: payload})
		if err := h.rdb.Publish(context.Background(), clusterChannel, envelope).Err(); err != nil {
			h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) deliver(topic string, payload []byte) {
	var slow []*Client

	h.mu.RLock()
	for _, t := range []string{topic, AllNotes} {
		for _, client := range h.clients[t] {
			select {
			case client.Send <- payload:
			default:
				slow = append(slow, client)
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Hub", "Client send buffer full, disconnecting", map[string]interface{}{"topic": client.Topic})
		go h.Unregister(client)
	}
}

// ClientCount is the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var envelope clusterEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if envelope.Origin == h.origin {
				continue
			}
			h.deliver(envelope.Topic, envelope.Message)
		}
	}
}
