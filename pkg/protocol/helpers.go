package protocol

import (
	"errors"
)

// ErrMissingData is returned when a message that requires a payload has none.
var ErrMissingData = errors.New("protocol: message has no data")

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewFaceMessage creates a face message
func NewFaceMessage(face *FaceData) (*Message, error) {
	return NewMessage(TypeFace, face)
}

// NewHandsMessage creates a hands message
func NewHandsMessage(hands *HandsData) (*Message, error) {
	return NewMessage(TypeHands, hands)
}

// NewErrorMessage creates an error message for a rejected inbound message
func NewErrorMessage(rejected MessageType, err error) (*Message, error) {
	return NewMessage(TypeError, ErrorData{
		Message: err.Error(),
		Type:    rejected,
	})
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{ID: id})
}

// NewPongMessage creates a pong response message
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

// GetFaceData extracts face data from a message
func (m *Message) GetFaceData() (*FaceData, error) {
	if len(m.Data) == 0 {
		return nil, ErrMissingData
	}
	var data FaceData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetHandsData extracts hand data from a message
func (m *Message) GetHandsData() (*HandsData, error) {
	if len(m.Data) == 0 {
		return nil, ErrMissingData
	}
	var data HandsData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPingData extracts ping data from a message
func (m *Message) GetPingData() (*PingData, error) {
	var data PingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPongData extracts pong data from a message
func (m *Message) GetPongData() (*PongData, error) {
	var data PongData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetErrorData extracts error data from a message
func (m *Message) GetErrorData() (*ErrorData, error) {
	var data ErrorData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
