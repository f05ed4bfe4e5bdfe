package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetRefreshEvent_HasSource(t *testing.T) {
	tests := []struct {
		name        string
		event       DatasetRefreshEvent
		expected    bool
		description string
	}{
		{
			name:        "explicit local path",
			event:       DatasetRefreshEvent{RequestID: uuid.New(), Source: "data/metadata.json"},
			expected:    true,
			description: "Should return true when a source is set",
		},
		{
			name:        "empty source",
			event:       DatasetRefreshEvent{RequestID: uuid.New()},
			expected:    false,
			description: "Should fall back to the configured source",
		},
		{
			name:        "whitespace only",
			event:       DatasetRefreshEvent{RequestID: uuid.New(), Source: "   "},
			expected:    false,
			description: "Whitespace is not a source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.HasSource(), tt.description)
		})
	}
}

func TestDatasetDoneEvent_JSON(t *testing.T) {
	id := uuid.New()
	data, err := json.Marshal(DatasetDoneEvent{RequestID: id, Rows: 0, Error: "boom"})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, id.String(), raw["request_id"])
	assert.Equal(t, "boom", raw["error"])
	assert.NotContains(t, raw, "hash")
	assert.Contains(t, raw, "rows")
}
