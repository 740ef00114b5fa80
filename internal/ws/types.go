package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	// client -> server intents
	MessageTypeSelect  MessageType = "select"
	MessageTypeDrop    MessageType = "drop"
	MessageTypeCastle  MessageType = "castle"
	MessageTypePromote MessageType = "promote"

	// server -> client
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeMatchFound MessageType = "matchFound"
	MessageTypeError      MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// IntentPayload carries the argument of an intent: a square name for
// select, drop and castle, a piece name for promote.
type IntentPayload struct {
	Square string `json:"square,omitempty"`
	Choice string `json:"choice,omitempty"`
}

// ErrorPayload reports a rejected intent to the sender only.
type ErrorPayload struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// NewMessage marshals payload into a Message of type t.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}
