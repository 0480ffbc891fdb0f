package hub

import (
	"time"

	"github.com/shredders/keymapper/internal/mapper"
	"github.com/shredders/keymapper/internal/profile"
)

// WSMessage represents a WebSocket message sent from server to client.
type WSMessage struct {
	Type      string           `json:"type"`      // Message type: "status", "profile", "frame", "frame_delta", "captured", "error"
	Seq       int64            `json:"seq"`       // Sequence number for ordering
	Timestamp int64            `json:"timestamp"` // Unix timestamp in milliseconds
	Status    string           `json:"status,omitempty"`
	Profile   *profile.Profile `json:"profile,omitempty"`
	Frame     *mapper.Frame    `json:"frame,omitempty"`
	Changes   *mapper.Delta    `json:"changes,omitempty"`
	Control   string           `json:"control,omitempty"`
	Key       string           `json:"key,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// NewStatusMessage creates a "status" type message carrying the mapper status string.
func NewStatusMessage(seq int64, status string) *WSMessage {
	return &WSMessage{
		Type:      "status",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Status:    status,
	}
}

// NewProfileMessage creates a "profile" type message containing the full active profile.
func NewProfileMessage(seq int64, p *profile.Profile) *WSMessage {
	return &WSMessage{
		Type:      "profile",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Profile:   p,
	}
}

// NewFrameMessage creates a "frame" type message containing a complete controller frame.
func NewFrameMessage(seq int64, f *mapper.Frame) *WSMessage {
	return &WSMessage{
		Type:      "frame",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Frame:     f,
	}
}

// NewFrameDeltaMessage creates a "frame_delta" type message containing only changed fields.
func NewFrameDeltaMessage(seq int64, changes *mapper.Delta) *WSMessage {
	return &WSMessage{
		Type:      "frame_delta",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Changes:   changes,
	}
}

// NewCapturedMessage creates a "captured" confirmation for a one-shot key capture.
func NewCapturedMessage(control, key string) *WSMessage {
	return &WSMessage{
		Type:      "captured",
		Timestamp: time.Now().UnixMilli(),
		Control:   control,
		Key:       key,
	}
}

// NewErrorMessage creates an "error" type message reporting a failed client command.
func NewErrorMessage(detail string) *WSMessage {
	return &WSMessage{
		Type:      "error",
		Timestamp: time.Now().UnixMilli(),
		Error:     detail,
	}
}

// ClientMessage represents a command sent from the client to the server.
type ClientMessage struct {
	Type    string           `json:"type"` // "start", "stop", "update_profile", "save", "load", "reset", "capture", "clear"
	Control string           `json:"control,omitempty"`
	Profile *profile.Profile `json:"profile,omitempty"`
}
