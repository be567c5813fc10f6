package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidJSON    = errors.New("frame is not valid JSON")
	ErrMissingType    = errors.New("msgType is missing")
	ErrMissingContent = errors.New("msgContent is missing")
	ErrUnknownType    = errors.New("msgType is not a known message kind")
)

// rawChatMessage distinguishes absent or null fields from empty strings
type rawChatMessage struct {
	Type    *string `json:"msgType"`
	Content *string `json:"msgContent"`
}

// NewChatMessage creates a chat message of the given kind
func NewChatMessage(msgType MsgType, content string) ChatMessage {
	return ChatMessage{Type: msgType, Content: content}
}

// ParseChatMessage decodes a chat channel frame.
// Frames with a missing kind, missing content or unknown kind are rejected.
func ParseChatMessage(frame []byte) (ChatMessage, error) {
	var raw rawChatMessage
	if err := json.Unmarshal(frame, &raw); err != nil {
		return ChatMessage{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	if raw.Type == nil {
		return ChatMessage{}, ErrMissingType
	}
	if raw.Content == nil {
		return ChatMessage{}, ErrMissingContent
	}

	msgType := MsgType(*raw.Type)
	if !msgType.Valid() {
		return ChatMessage{}, fmt.Errorf("%w: %q", ErrUnknownType, *raw.Type)
	}

	return ChatMessage{Type: msgType, Content: *raw.Content}, nil
}

// Encode returns the JSON text frame for the message
func (m ChatMessage) Encode() ([]byte, error) {
	if !m.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, string(m.Type))
	}
	return json.Marshal(m)
}
