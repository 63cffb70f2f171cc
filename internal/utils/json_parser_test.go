package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAIJSON(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  any
	}{
		{
			name:  "object",
			reply: `{"kind": "name", "value": "Dana"}`,
			want:  map[string]any{"kind": "name", "value": "Dana"},
		},
		{
			name:  "envelope in json fence",
			reply: "```json\n" + `{"items": [{"kind": "vehicle", "value": "Limousine"}]}` + "\n```",
			want:  map[string]any{"items": []any{map[string]any{"kind": "vehicle", "value": "Limousine"}}},
		},
		{
			name:  "array in bare fence",
			reply: "```\n[{\"kind\": \"time\", \"value\": \"17:00\"}]\n```",
			want:  []any{map[string]any{"kind": "time", "value": "17:00"}},
		},
		{
			name:  "object inside prose",
			reply: `Sure! Here it is: {"kind": "event", "value": "Wedding {big}"} Let me know.`,
			want:  map[string]any{"kind": "event", "value": "Wedding {big}"},
		},
		{
			name:  "trailing comma",
			reply: `{"kind": "zip", "value": "85201",}`,
			want:  map[string]any{"kind": "zip", "value": "85201"},
		},
		{
			name:  "bare keys",
			reply: `{kind: "city", value: "Phoenix"}`,
			want:  map[string]any{"kind": "city", "value": "Phoenix"},
		},
		{
			name:  "truncated array",
			reply: `[{"kind": "name", "value": "Dana", "confidence": 0.7}`,
			want:  []any{map[string]any{"kind": "name", "value": "Dana", "confidence": 0.7}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ExtractAIJSON(tt.reply)
			require.NoError(t, err)
			require.Contains(t, "{[", string(raw[0]))

			var got any
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractAIJSON_NoDocument(t *testing.T) {
	for _, reply := range []string{"", "   ", "not json at all", "```\nhello\n```", `"just a string"`, "42"} {
		_, err := ExtractAIJSON(reply)
		assert.ErrorIs(t, err, ErrNoJSON, reply)
	}
}

func TestFirstJSONSpan(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`{"a": 1} trailing`, `{"a": 1}`},
		{`x {"a": {"b": [2]}} y`, `{"a": {"b": [2]}}`},
		{`{"text": "Hello {world} \"}\""}`, `{"text": "Hello {world} \"}\""}`},
		{`see [1, 2, 3].`, `[1, 2, 3]`},
		{`{"open": true`, ``},
		{`no brackets`, ``},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, firstJSONSpan(tt.input))
		})
	}
}
