package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/shredders/keymapper/internal/keys"
	"github.com/shredders/keymapper/internal/profile"
)

// captureTimeout bounds how long a "capture" command waits for a key press.
const captureTimeout = 10 * time.Second

// Controller defines the mapper operations the web clients can drive.
type Controller interface {
	StartMapper()
	StopMapper()
	Profile() *profile.Profile
	ReplaceProfile(p *profile.Profile)
	SaveProfile() error
	LoadProfile() error
	ResetProfile()
	Bind(control string, k keys.Key) error
	Capture(ctx context.Context) (keys.Key, error)
}

// Client represents a connected WebSocket client.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

// NewClient creates a new Client attached to the hub.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// enqueue queues a message for the write pump. It reports false when
// the send buffer is full; a closed client silently drops the message.
// All writes to the send channel go through here so a concurrent
// closeSend can never race a send.
func (c *Client) enqueue(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel exactly once, ending the write pump.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// WritePump sends messages from the send channel to the WebSocket connection.
func (c *Client) WritePump() {
	defer func() {
		c.conn.Close()
	}()

	for msg := range c.send {
		err := c.conn.WriteMessage(websocket.TextMessage, msg)
		if err != nil {
			break
		}
	}
}

// ReadPump reads messages from the WebSocket and handles client commands.
func (c *Client) ReadPump(ctrl Controller, b *Broadcaster) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var clientMsg ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			log.Warn().Err(err).Msg("Error parsing client message")
			continue
		}

		switch clientMsg.Type {
		case "start":
			ctrl.StartMapper()
		case "stop":
			ctrl.StopMapper()
		case "update_profile":
			if clientMsg.Profile == nil {
				c.sendError("update_profile requires a profile")
				continue
			}
			ctrl.ReplaceProfile(clientMsg.Profile)
			b.BroadcastProfile(ctrl.Profile())
		case "save":
			if err := ctrl.SaveProfile(); err != nil {
				log.Error().Err(err).Msg("Failed to save profile")
				c.sendError("save failed: " + err.Error())
			}
		case "load":
			if err := ctrl.LoadProfile(); err != nil {
				log.Error().Err(err).Msg("Failed to load profile")
				c.sendError("load failed: " + err.Error())
				continue
			}
			b.BroadcastProfile(ctrl.Profile())
		case "reset":
			ctrl.ResetProfile()
			b.BroadcastProfile(ctrl.Profile())
		case "clear":
			if err := ctrl.Bind(clientMsg.Control, keys.Key{}); err != nil {
				c.sendError(err.Error())
				continue
			}
			b.BroadcastProfile(ctrl.Profile())
		case "capture":
			go c.runCapture(ctrl, b, clientMsg.Control)
		default:
			log.Warn().Str("type", clientMsg.Type).Msg("Unknown client command")
		}
	}
}

// runCapture waits for the next global key press and binds it to the control.
// Runs in its own goroutine so the read loop keeps serving other commands.
func (c *Client) runCapture(ctrl Controller, b *Broadcaster, control string) {
	ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
	defer cancel()

	k, err := ctrl.Capture(ctx)
	if err != nil {
		log.Warn().Err(err).Str("control", control).Msg("Key capture failed")
		c.sendError("capture failed: " + err.Error())
		return
	}
	if err := ctrl.Bind(control, k); err != nil {
		c.sendError(err.Error())
		return
	}
	log.Info().Str("control", control).Str("key", k.String()).Msg("Key captured")
	c.sendJSON(NewCapturedMessage(control, k.String()))
	b.BroadcastProfile(ctrl.Profile())
}

func (c *Client) sendError(detail string) {
	c.sendJSON(NewErrorMessage(detail))
}

func (c *Client) sendJSON(msg *WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.enqueue(data)
}
