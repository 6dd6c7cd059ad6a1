// Package protocol defines the WebSocket message types exchanged between
// vision producers, the aura server and renderer clients.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teslashibe/go-aura/pkg/vision"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Producer → server
	TypeFace  MessageType = "face"  // Face-model reading
	TypeHands MessageType = "hands" // Hand-model reading

	// Server → client
	TypeStatus MessageType = "status" // Engine status snapshot
	TypeError  MessageType = "error"  // Rejected inbound message

	// Operator → server
	TypeTuning MessageType = "tuning" // Runtime tuning update

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all JSON WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// =============================================================================
// Producer → Server Message Types
// =============================================================================

// FaceData is one face-model reading as sent by a producer.
type FaceData = vision.Face

// HandsData is one hand-model reading as sent by a producer.
type HandsData = vision.Hands

// =============================================================================
// Bidirectional Message Types
// =============================================================================

// PingData is sent to check connection health
type PingData struct {
	ID string `json:"id,omitempty"`
}

// PongData is the response to a ping
type PongData struct {
	ID        string `json:"id,omitempty"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}

// ErrorData reports why an inbound message was rejected
type ErrorData struct {
	Message string      `json:"message"`
	Type    MessageType `json:"type,omitempty"`
}
