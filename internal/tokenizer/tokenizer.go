// Package tokenizer estimates token counts for merged content so the
// statistics view can report how much model context the artifact consumes.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const defaultEncodingName = "cl100k_base"

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// NewCounter returns a Counter for the requested model. Models without a known
// tiktoken encoding fall back to the default encoding; the second return value
// names the encoding actually selected.
func NewCounter(modelName string) (Counter, string, error) {
	trimmedModel := strings.TrimSpace(strings.ToLower(modelName))
	if trimmedModel != "" {
		encoding, encodingError := tiktoken.EncodingForModel(trimmedModel)
		if encodingError == nil && encoding != nil {
			return encodingCounter{encoding: encoding, name: trimmedModel}, trimmedModel, nil
		}
	}

	fallbackEncoding, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf("initialize fallback tokenizer: %w", fallbackError)
	}
	return encodingCounter{encoding: fallbackEncoding, name: defaultEncodingName}, defaultEncodingName, nil
}

// encodingCounter implements Counter using a tiktoken encoding.
type encodingCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter encodingCounter) Name() string {
	return counter.name
}

func (counter encodingCounter) CountString(input string) (int, error) {
	return len(counter.encoding.Encode(input, nil, nil)), nil
}
