package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ErrTrailingData is returned when a JSON document is followed by more content.
var ErrTrailingData = errors.New("unexpected data after JSON document")

var fenceRegex = regexp.MustCompile("(?s)^```(\\w*)?\\s*\\n?(.*?)\\n?\\s*```$")

// StripCodeFence trims text and, when it is wrapped in a markdown code fence
// (with an optional language tag), returns only the trimmed inner body.
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if m := fenceRegex.FindStringSubmatch(s); m != nil && m[2] != "" {
		s = strings.TrimSpace(m[2])
	}
	return s
}

// DecodeJSON strips any code fence from text and strictly decodes the single
// JSON document it contains into v.
func DecodeJSON(text string, v any) error {
	dec := json.NewDecoder(strings.NewReader(StripCodeFence(text)))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode JSON response: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return ErrTrailingData
	}
	return nil
}
