package bridge

import (
	"fmt"
	"strings"
)

// FlattenPrompt reduces an ordered message sequence to a single prompt
// string. System and assistant messages are wrapped in tag blocks so the
// downstream tool can distinguish instructions and prior turns from the
// live user text; the blank-line spacing between fragments is part of the
// output contract.
func FlattenPrompt(messages []ChatMessage) string {
	fragments := make([]string, 0, len(messages))
	for _, msg := range messages {
		text := extractText(msg.Content)
		switch msg.Role {
		case RoleSystem:
			fragments = append(fragments, "<system>\n"+text+"\n</system>\n")
		case RoleUser:
			fragments = append(fragments, text)
		case RoleAssistant:
			fragments = append(fragments, "<previous_response>\n"+text+"\n</previous_response>\n")
		}
		// Unrecognized roles contribute no fragment.
	}
	return strings.TrimSpace(strings.Join(fragments, "\n"))
}

// extractText reduces a message content value to plain text. Part sequences
// keep only well-formed text parts, concatenated in order with no separator;
// image_url parts are dropped without a placeholder. Content shapes outside
// the declared ones degrade to their printed representation rather than
// failing.
func extractText(content any) string {
	switch c := content.(type) {
	case nil:
		return ""
	case string:
		return c
	case []ContentPart:
		var b strings.Builder
		for _, part := range c {
			if part.Type == "text" && part.Text != "" {
				b.WriteString(part.Text)
			}
		}
		return b.String()
	case []any:
		var b strings.Builder
		for _, raw := range c {
			part, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if partType, _ := part["type"].(string); partType != "text" {
				continue
			}
			if text, ok := part["text"].(string); ok && text != "" {
				b.WriteString(text)
			}
		}
		return b.String()
	default:
		return fmt.Sprintf("%v", c)
	}
}
