package protocol

import (
	"encoding/json"

	"chatsync/internal/pkg/errs"
)

// ChatMessage is one entry of the feed, as broadcast by the server inside the
// data field of a message frame.
type ChatMessage struct {
	Sender string `json:"from"`
	Body   string `json:"message"`
}

// DecodeChatMessage parses the nested payload of an inbound message frame.
// Both fields must be present.
func DecodeChatMessage(data string) (ChatMessage, error) {
	var raw struct {
		From    *string `json:"from"`
		Message *string `json:"message"`
	}

	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return ChatMessage{}, errs.NewDecodeError(err, "malformed message payload")
	}
	if raw.From == nil {
		return ChatMessage{}, errs.NewDecodeError(nil, "message payload without from")
	}
	if raw.Message == nil {
		return ChatMessage{}, errs.NewDecodeError(nil, "message payload without message")
	}

	return ChatMessage{Sender: *raw.From, Body: *raw.Message}, nil
}

// EncodeChatMessage renders m as the nested payload a server broadcasts.
func EncodeChatMessage(m ChatMessage) string {
	b, _ := json.Marshal(m)
	return string(b)
}

// Broadcast builds the inbound message envelope a server sends for m.
func Broadcast(m ChatMessage) Envelope {
	return Message(EncodeChatMessage(m))
}
