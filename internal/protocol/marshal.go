package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownMessageType is returned when a message's type tag is not one
// of the defined constants
var ErrUnknownMessageType = errors.New("unknown message type")

// Marshal serializes a message to JSON
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal deserializes JSON data into a message
func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Peek extracts the type tag from a raw message without decoding the
// whole payload
func Peek(data []byte) (string, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", fmt.Errorf("malformed message: %w", err)
	}
	if probe.Type == "" {
		return "", ErrUnknownMessageType
	}
	return probe.Type, nil
}
