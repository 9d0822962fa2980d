package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(hub *Hub, topic string) *Client {
	c := &Client{Hub: hub, Topic: topic, Send: make(chan []byte, 4)}
	hub.Register(c)
	return c
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case raw := <-c.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return Message{}
	}
}

func TestHub_NotifyNote(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(nil, nil)
	go hub.Run(ctx)

	noteID := uuid.New()
	follower := newClient(hub, noteID.String())
	everyone := newClient(hub, AllNotes)
	other := newClient(hub, uuid.NewString())
	require.Eventually(t, func() bool { return hub.ClientCount() == 3 }, time.Second, 5*time.Millisecond)

	hub.NotifyNote(noteID, "NOTE_ENRICHED", map[string]string{"summary": "done"})

	for _, c := range []*Client{follower, everyone} {
		msg := receive(t, c)
		assert.Equal(t, "NOTE_ENRICHED", msg.Type)
		assert.Equal(t, noteID.String(), msg.NoteID)
		assert.Equal(t, map[string]interface{}{"summary": "done"}, msg.Data)
	}
	assert.Empty(t, other.Send)
}

func TestHub_Unregister(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(nil, nil)
	go hub.Run(ctx)

	c := newClient(hub, AllNotes)
	hub.Unregister(c)

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open)
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(nil, nil)
	go hub.Run(ctx)

	slow := &Client{Hub: hub, Topic: AllNotes, Send: make(chan []byte)}
	require.True(t, hub.Register(slow))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.NotifyNote(uuid.New(), "NOTE_CREATED", nil)

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_StoppedHubDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, nil)
	go hub.Run(ctx)

	c := newClient(hub, AllNotes)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-hub.done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	_, open := <-c.Send
	assert.False(t, open)

	returned := make(chan struct{})
	go func() {
		hub.Unregister(c)
		hub.deliver(AllNotes, []byte(`{}`))
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("unregister blocked after shutdown")
	}
	assert.False(t, hub.Register(&Client{Hub: hub, Topic: AllNotes, Send: make(chan []byte, 1)}))
}
