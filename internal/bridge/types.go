// Package bridge converts OpenAI-style chat completion requests into the
// input consumed by a single-turn command-line text generator. The whole
// package is a pure, stateless mapping: one structured record in, one out.
package bridge

// Role values accepted in chat messages. Messages with any other role
// contribute nothing to the flattened prompt.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single role-tagged message. Content is either a plain
// string, a []ContentPart, or the []any form produced by decoding a JSON
// multi-part content array.
type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPart is one element of a multi-part message body.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries the image reference of an "image_url" part. The bridge
// drops image parts entirely; the field exists so decoded requests round-trip.
type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// ChatRequest is the subset of an OpenAI chat completion request the bridge
// reads, plus generation parameters it carries for downstream layers without
// interpreting them.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	User        string        `json:"user,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

// ModelAlias is one of the closed set of model tiers the CLI tool accepts.
type ModelAlias string

const (
	AliasOpus   ModelAlias = "opus"
	AliasSonnet ModelAlias = "sonnet"
	AliasHaiku  ModelAlias = "haiku"
)

// CLIInput is the fully converted request: a single flattened prompt, a
// normalized model alias, and an optional caller session key.
type CLIInput struct {
	Prompt    string     `json:"prompt"`
	Model     ModelAlias `json:"model"`
	SessionID string     `json:"session_id,omitempty"`
}
