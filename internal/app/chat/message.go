package chat

import "encoding/json"

// EventType identifies a chat wire frame.
type EventType string

const (
	// EventJoin binds a display name to the sending connection.
	EventJoin EventType = "join"

	// EventMessage carries chat text, inbound from a client or outbound as a broadcast.
	EventMessage EventType = "message"
)

// Frame is the JSON envelope for every chat frame in both directions.
type Frame struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinPayload is the client payload of an EventJoin frame.
type JoinPayload struct {
	DisplayName string `json:"displayName"`
}

// TextPayload is the client payload of an inbound EventMessage frame.
type TextPayload struct {
	Text string `json:"text"`
}

// Message is the broadcast payload of an outbound EventMessage frame: the
// sender's display name at the moment the hub received the text, the text
// itself, and the hub's receipt timestamp in Unix milliseconds.
type Message struct {
	DisplayName string `json:"displayName"`
	Text        string `json:"text"`
	Timestamp   int64  `json:"timestamp"`
}

// EncodeFrame marshals a payload into a complete wire frame.
func EncodeFrame(eventType EventType, payload any) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Frame{
		Type:    eventType,
		Payload: payloadBytes,
	})
}
