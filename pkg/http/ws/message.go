package ws

import "encoding/json"

// MessageType constants for the display stream protocol.
const (
	// Client -> Server
	TypeRequestSnapshot = "request_snapshot"
	TypePing            = "ping"

	// Server -> Client
	TypeSnapshot = "session_snapshot"
	TypeClosed   = "session_closed"
	TypeError    = "error"
	TypePong     = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage encodes payload into a message of the given type.
func NewMessage(msgType string, payload any) (Message, error) {
	msg := Message{Type: msgType}
	if payload == nil {
		return msg, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	msg.Payload = raw
	return msg, nil
}

type ClosedPayload struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
