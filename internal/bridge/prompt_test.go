package bridge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlattenPromptEmpty(t *testing.T) {
	require.Equal(t, "", FlattenPrompt(nil))
	require.Equal(t, "", FlattenPrompt([]ChatMessage{}))
}

func TestFlattenPromptSingleUserMessage(t *testing.T) {
	out := FlattenPrompt([]ChatMessage{{Role: RoleUser, Content: "hello"}})
	require.Equal(t, "hello", out)
}

func TestFlattenPromptSystemMessageWrapped(t *testing.T) {
	out := FlattenPrompt([]ChatMessage{{Role: RoleSystem, Content: "be nice"}})
	require.Equal(t, "<system>\nbe nice\n</system>", out)
}

func TestFlattenPromptAssistantMessageWrapped(t *testing.T) {
	out := FlattenPrompt([]ChatMessage{{Role: RoleAssistant, Content: "earlier answer"}})
	require.Equal(t, "<previous_response>\nearlier answer\n</previous_response>", out)
}

func TestFlattenPromptSystemThenUserKeepsBlankLineGap(t *testing.T) {
	out := FlattenPrompt([]ChatMessage{
		{Role: RoleSystem, Content: "S"},
		{Role: RoleUser, Content: "U"},
	})
	require.Equal(t, "<system>\nS\n</system>\n\nU", out)
}

func TestFlattenPromptFullConversation(t *testing.T) {
	out := FlattenPrompt([]ChatMessage{
		{Role: RoleSystem, Content: "S"},
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "reply"},
		{Role: RoleUser, Content: "second"},
	})
	want := "<system>\nS\n</system>\n\nfirst\n<previous_response>\nreply\n</previous_response>\n\nsecond"
	require.Equal(t, want, out)
}

func TestFlattenPromptDropsUnknownRoles(t *testing.T) {
	out := FlattenPrompt([]ChatMessage{
		{Role: "tool", Content: "ignored"},
		{Role: RoleUser, Content: "kept"},
	})
	require.Equal(t, "kept", out)
}

func TestFlattenPromptMultiPartContent(t *testing.T) {
	out := FlattenPrompt([]ChatMessage{{
		Role: RoleUser,
		Content: []ContentPart{
			{Type: "text", Text: "a"},
			{Type: "image_url", ImageURL: &ImageURL{URL: "https://example.com/x.png"}},
			{Type: "text", Text: "b"},
		},
	}})
	require.Equal(t, "ab", out)
}

func TestFlattenPromptDecodedJSONParts(t *testing.T) {
	// The shape json.Unmarshal produces for a multi-part content array.
	out := FlattenPrompt([]ChatMessage{{
		Role: RoleUser,
		Content: []any{
			map[string]any{"type": "text", "text": "a"},
			map[string]any{"type": "image_url", "image_url": map[string]any{"url": "https://example.com/x.png"}},
			map[string]any{"type": "text", "text": "b"},
			map[string]any{"type": "text"},
		},
	}})
	require.Equal(t, "ab", out)
}

func TestFlattenPromptCoercesUnknownContentShapes(t *testing.T) {
	out := FlattenPrompt([]ChatMessage{{Role: RoleUser, Content: 42}})
	require.Equal(t, "42", out)
}

func TestFlattenPromptEmptySystemContent(t *testing.T) {
	out := FlattenPrompt([]ChatMessage{{Role: RoleSystem, Content: ""}})
	require.Equal(t, "<system>\n\n</system>", out)
}
