package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput is returned for input that cannot be read as records.
// Nothing is sent to the model when it occurs.
var ErrInvalidInput = errors.New("invalid import input")

// Source yields the raw records of one import run
type Source interface {
	Records() ([]json.RawMessage, error)
	Describe() string
}

// TextSource is pasted JSON text
type TextSource string

func (s TextSource) Records() ([]json.RawMessage, error) {
	return ParseInput(string(s))
}

func (s TextSource) Describe() string {
	return fmt.Sprintf("pasted text (%d bytes)", len(s))
}

// ParseInput reads pasted JSON. An array yields its elements, an object with a
// "data" array yields that array, and any other value becomes a single record.
func ParseInput(text string) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: no data", ErrInvalidInput)
	}

	var value json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	switch value[0] {
	case '[':
		var records []json.RawMessage
		if err := json.Unmarshal(value, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return records, nil
	case '{':
		var wrapper struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(value, &wrapper); err == nil {
			data := bytes.TrimSpace(wrapper.Data)
			if len(data) > 0 && data[0] == '[' {
				var records []json.RawMessage
				if err := json.Unmarshal(data, &records); err == nil {
					return records, nil
				}
			}
		}
	}

	return []json.RawMessage{value}, nil
}
