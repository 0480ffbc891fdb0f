package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shredders/keymapper/internal/mapper"
	"github.com/shredders/keymapper/internal/profile"
)

const (
	fullSyncInterval = 5 * time.Second
	deltaCountSync   = 100
)

// Broadcaster consumes controller frames from the mapper loop and relays
// them to connected clients, alongside status and profile updates.
type Broadcaster struct {
	hub    *Hub
	frames <-chan mapper.Frame

	mu         sync.Mutex
	lastFrame  mapper.Frame
	lastStatus string
	seq        int64
}

func NewBroadcaster(h *Hub, frames <-chan mapper.Frame) *Broadcaster {
	return &Broadcaster{
		hub:        h,
		frames:     frames,
		lastStatus: "Ready",
	}
}

// Run starts the broadcaster loop. Should be run in a goroutine.
func (b *Broadcaster) Run() {
	ticker := time.NewTicker(fullSyncInterval)
	defer ticker.Stop()

	var deltaCount int64

	for {
		select {
		case frame, ok := <-b.frames:
			if !ok {
				return
			}

			b.mu.Lock()
			delta := mapper.ComputeDelta(b.lastFrame, frame)
			b.lastFrame = frame

			if delta.IsEmpty() {
				b.mu.Unlock()
				continue
			}

			b.seq++
			deltaCount++

			// Send full sync periodically
			if deltaCount >= deltaCountSync {
				b.broadcast(NewFrameMessage(b.seq, &frame))
				deltaCount = 0
			} else {
				b.broadcast(NewFrameDeltaMessage(b.seq, delta))
			}
			b.mu.Unlock()

		case <-ticker.C:
			b.mu.Lock()
			b.seq++
			frame := b.lastFrame
			b.broadcast(NewFrameMessage(b.seq, &frame))
			b.mu.Unlock()
		}
	}
}

// BroadcastStatus relays a mapper status change to all clients.
func (b *Broadcaster) BroadcastStatus(status string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastStatus = status
	b.seq++
	b.broadcast(NewStatusMessage(b.seq, status))
}

// BroadcastProfile relays the active profile to all clients.
func (b *Broadcaster) BroadcastProfile(p *profile.Profile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	b.broadcast(NewProfileMessage(b.seq, p))
}

// SendInitialState sends the current status, profile and frame to a newly
// connected client.
func (b *Broadcaster) SendInitialState(c *Client, p *profile.Profile) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	b.sendTo(c, NewStatusMessage(b.seq, b.lastStatus))
	b.seq++
	b.sendTo(c, NewProfileMessage(b.seq, p))
	b.seq++
	frame := b.lastFrame
	b.sendTo(c, NewFrameMessage(b.seq, &frame))
}

func (b *Broadcaster) broadcast(msg *WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("type", msg.Type).Msg("Error marshaling message")
		return
	}
	b.hub.Broadcast(data)
}

func (b *Broadcaster) sendTo(c *Client, msg *WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("type", msg.Type).Msg("Error marshaling message")
		return
	}
	c.enqueue(data)
}
