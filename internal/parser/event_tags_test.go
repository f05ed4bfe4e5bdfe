package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/building-analyzer/internal/parser"
)

func TestEventTagger_Tag(t *testing.T) {
	keywords := []byte(`{
		"WIN": "Winter Event",
		"GBG": "Guild Battlegrounds",
		"COP": "Community Event",
		"Expedition": "Guild Expedition",
		"PATRICK": "St. Patrick's Event"
	}`)
	exceptions := []byte(`{"W_MultiAge_WIN21A": "Winter Special"}`)

	tagger, err := parser.NewEventTagger(keywords, exceptions)
	require.NoError(t, err)

	tests := []struct {
		name     string
		id       string
		expected string
	}{
		{"explicit exception wins", "W_MultiAge_WIN21A", "Winter Special"},
		{"keyword with year", "W_MultiAge_WIN19B", "Winter Event 2019"},
		{"keyword without year keeps id", "W_MultiAge_WINX", "W_MultiAge_WINX"},
		{"battlegrounds starts at 23", "W_MultiAge_GBG19", "W_MultiAge_GBG19"},
		{"battlegrounds with year", "W_MultiAge_GBG24", "Guild Battlegrounds 2024"},
		{"community event has no year", "W_MultiAge_COP22", "Community Event"},
		{"expedition has no year", "W_MultiAge_Expedition25", "Guild Expedition"},
		{"no keyword", "W_MultiAge_Something", "W_MultiAge_Something"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tagger.Tag(tt.id))
		})
	}
}

func TestEventTagger_LaterKeywordOverrides(t *testing.T) {
	tagger, err := parser.NewEventTagger([]byte(`{"SUM": "Summer Event", "PATRICK": "Patrick Event"}`), nil)
	require.NoError(t, err)

	assert.Equal(t, "Patrick Event 2023", tagger.Tag("W_SUM_PATRICK23"))
}

func TestEventTagger_InvalidInput(t *testing.T) {
	_, err := parser.NewEventTagger([]byte(`{"broken"`), nil)
	assert.Error(t, err)

	_, err = parser.NewEventTagger(nil, []byte(`["not", "an", "object"]`))
	assert.Error(t, err)
}

func TestEventTagger_Nil(t *testing.T) {
	var tagger *parser.EventTagger
	assert.Equal(t, "W_X", tagger.Tag("W_X"))
}
