// Package tokenizer estimates token counts for text sent to the completion service.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config selects the encoding used for counting.
type Config struct {
	Model string
}

const (
	// DefaultModel is used when Config.Model is empty.
	DefaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

var errNilCounter = errors.New("nil tokenizer counter")

// NewCounter returns a tiktoken-backed Counter for the requested model.
// Models without a registered encoding fall back to cl100k_base.
func NewCounter(cfg Config) (Counter, error) {
	model := strings.ToLower(strings.TrimSpace(cfg.Model))
	if model == "" {
		model = DefaultModel
	}
	encoding, encodingErr := tiktoken.EncodingForModel(model)
	if encodingErr == nil && encoding != nil {
		return encodingCounter{encoding: encoding, name: model}, nil
	}
	fallback, fallbackErr := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackErr != nil {
		return nil, fmt.Errorf("initialize tokenizer for %s: %w", model, fallbackErr)
	}
	return encodingCounter{encoding: fallback, name: defaultEncodingName}, nil
}

type encodingCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter encodingCounter) Name() string {
	return counter.name
}

func (counter encodingCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("nil tiktoken encoder")
	}
	return len(counter.encoding.Encode(input, nil, nil)), nil
}

// CountText counts tokens of text. Invalid UTF-8 sequences are counted as replacement characters.
func CountText(counter Counter, text string) (int, error) {
	if counter == nil {
		return 0, errNilCounter
	}
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, replacementCharacter)
	}
	return counter.CountString(text)
}

const replacementCharacter = "\uFFFD"
