package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs runs one client session until the connection closes.
func ServeWs(hub *Hub, c *websocket.Conn, topic string) {
	client := &Client{Hub: hub, Conn: c, Topic: topic, Send: make(chan []byte, sendBuffer)}
	if !hub.Register(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
