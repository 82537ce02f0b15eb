package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"day":"Monday"}`, `{"day":"Monday"}`},
		{"json tag", "```json\n{\"day\":\"Monday\"}\n```", `{"day":"Monday"}`},
		{"no tag", "```\n{\"day\":\"Monday\"}\n```", `{"day":"Monday"}`},
		{"surrounding whitespace", "  \n```json\n  {\"day\":\"Monday\"}  \n```\n ", `{"day":"Monday"}`},
		{"single line", "```{\"day\":\"Monday\"}```", `{"day":"Monday"}`},
		{"free text", "  Keep your chest up.  ", "Keep your chest up."},
		{"unclosed fence", "```json\n{\"day\":\"Monday\"}", "```json\n{\"day\":\"Monday\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}

func TestDecodeJSON_FencedEqualsBare(t *testing.T) {
	var bare, fenced sample
	require.NoError(t, DecodeJSON(`{"day":"Monday","count":3}`, &bare))
	require.NoError(t, DecodeJSON("```json\n{\"day\":\"Monday\",\"count\":3}\n```", &fenced))

	assert.Equal(t, sample{Day: "Monday", Count: 3}, bare)
	assert.Equal(t, bare, fenced)
}

func TestDecodeJSON_Malformed(t *testing.T) {
	var s sample

	assert.Error(t, DecodeJSON(`{"day":"Monday"`, &s))
	assert.Error(t, DecodeJSON("```json\n{\"day\":\n```", &s))
	assert.Error(t, DecodeJSON("", &s))
	assert.Error(t, DecodeJSON(`{"count":"three"}`, &s))

	err := DecodeJSON(`{"day":"Monday"} trailing`, &s)
	assert.True(t, errors.Is(err, ErrTrailingData), "got %v", err)
}
