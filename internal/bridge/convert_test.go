package bridge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvertComposesFlattenAndResolve(t *testing.T) {
	out := Convert(ChatRequest{
		Model: "anthropic/claude-sonnet-4",
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: "S"},
			{Role: RoleUser, Content: "U"},
		},
	})
	require.Equal(t, AliasSonnet, out.Model)
	require.Equal(t, "<system>\nS\n</system>\n\nU", out.Prompt)
	require.Equal(t, "", out.SessionID)
}

func TestConvertCopiesUserThroughAsSessionID(t *testing.T) {
	out := Convert(ChatRequest{Model: "opus", User: "abc"})
	require.Equal(t, "abc", out.SessionID)
}

func TestConvertIgnoresGenerationParameters(t *testing.T) {
	temp := 0.2
	maxTokens := 64
	withParams := Convert(ChatRequest{
		Model:       "haiku",
		Messages:    []ChatMessage{{Role: RoleUser, Content: "hi"}},
		Temperature: &temp,
		MaxTokens:   &maxTokens,
		Stream:      true,
	})
	withoutParams := Convert(ChatRequest{
		Model:    "haiku",
		Messages: []ChatMessage{{Role: RoleUser, Content: "hi"}},
	})
	require.Equal(t, withoutParams, withParams)
}

func TestConvertIsDeterministic(t *testing.T) {
	req := ChatRequest{
		Model: "claude-opus-4",
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: "guide"},
			{Role: RoleUser, Content: []ContentPart{{Type: "text", Text: "q"}}},
		},
		User: "session-1",
	}
	first := Convert(req)
	second := Convert(req)
	require.Equal(t, first, second)
}

func TestConvertFromDecodedJSONRequest(t *testing.T) {
	body := `{
		"model": "claude-haiku-4",
		"messages": [
			{"role": "system", "content": "S"},
			{"role": "user", "content": [
				{"type": "text", "text": "a"},
				{"type": "image_url", "image_url": {"url": "https://example.com/i.png"}},
				{"type": "text", "text": "b"}
			]}
		],
		"user": "caller-7"
	}`

	var req ChatRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	out := Convert(req)
	require.Equal(t, AliasHaiku, out.Model)
	require.Equal(t, "<system>\nS\n</system>\n\nab", out.Prompt)
	require.Equal(t, "caller-7", out.SessionID)
}
