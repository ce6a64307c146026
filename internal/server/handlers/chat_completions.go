package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/clibridge/clibridge/internal/bridge"
	apperrors "github.com/clibridge/clibridge/internal/errors"
	"github.com/clibridge/clibridge/internal/metrics"
	"github.com/clibridge/clibridge/internal/runner"
)

// maxRequestBody caps chat completion payloads at 10 MiB.
const maxRequestBody = 10 << 20

// Generator produces a completion for a converted request. Implemented by
// runner.Runner; stubbed in tests.
type Generator interface {
	Generate(ctx context.Context, input bridge.CLIInput) (*runner.Result, error)
}

// ChatHandler serves the OpenAI-compatible chat completion endpoint.
type ChatHandler struct {
	generator Generator
}

// NewChatHandler builds a ChatHandler around the given generator.
func NewChatHandler(generator Generator) *ChatHandler {
	return &ChatHandler{generator: generator}
}

// ChatCompletionResponse is the non-streaming response body.
type ChatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
}

// ChatChoice is one completion choice. This server always returns exactly
// one.
type ChatChoice struct {
	Index        int             `json:"index"`
	Message      AssistantOutput `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

// AssistantOutput is the assistant message in a completed choice.
type AssistantOutput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage reports estimated token counts.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// chunk types for the streaming variant.

type chatChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []chunkChoice `json:"choices"`
}

type chunkChoice struct {
	Index        int        `json:"index"`
	Delta        chunkDelta `json:"delta"`
	FinishReason *string    `json:"finish_reason"`
}

type chunkDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// ChatCompletions handles POST /v1/chat/completions.
func (h *ChatHandler) ChatCompletions(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req bridge.ChatRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "request body is not valid JSON"))
		return
	}

	if len(req.Messages) == 0 {
		respondWithError(w, r, apperrors.NewInvalidInputError("messages must not be empty"))
		return
	}

	input := bridge.Convert(req)
	metrics.RecordConversion(string(input.Model))

	result, err := h.generator.Generate(r.Context(), input)
	if err != nil {
		respondWithError(w, r, generationError(r.Context(), err))
		return
	}

	promptTokens := runner.EstimateTokens(input.Prompt)
	completionTokens := runner.EstimateTokens(result.Text)

	completionID := "chatcmpl-" + uuid.New().String()
	created := time.Now().Unix()

	if req.Stream {
		h.streamCompletion(w, r, completionID, created, input.Model, result.Text)
		return
	}

	response := ChatCompletionResponse{
		ID:      completionID,
		Object:  "chat.completion",
		Created: created,
		Model:   string(input.Model),
		Choices: []ChatChoice{
			{
				Index: 0,
				Message: AssistantOutput{
					Role:    "assistant",
					Content: result.Text,
				},
				FinishReason: "stop",
			},
		},
		Usage: Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

// streamCompletion replays the completed text as an SSE stream: a role
// delta, one content delta, a finish chunk, then [DONE]. The CLI tool does
// not stream, so the content arrives in a single delta.
func (h *ChatHandler) streamCompletion(w http.ResponseWriter, r *http.Request, id string, created int64, model bridge.ModelAlias, text string) {
	metrics.RecordStreamingRequest()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)

	writeChunk := func(choice chunkChoice) {
		chunk := chatChunk{
			ID:      id,
			Object:  "chat.completion.chunk",
			Created: created,
			Model:   string(model),
			Choices: []chunkChoice{choice},
		}
		payload, err := json.Marshal(chunk)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		if flusher != nil {
			flusher.Flush()
		}
	}

	writeChunk(chunkChoice{Index: 0, Delta: chunkDelta{Role: "assistant"}})
	if text != "" {
		writeChunk(chunkChoice{Index: 0, Delta: chunkDelta{Content: text}})
	}

	stop := "stop"
	writeChunk(chunkChoice{Index: 0, Delta: chunkDelta{}, FinishReason: &stop})

	fmt.Fprint(w, "data: [DONE]\n\n")
	if flusher != nil {
		flusher.Flush()
	}
}

// generationError maps a runner failure to the right envelope: timeouts
// become 504s, everything else is an upstream failure.
func generationError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.WrapTimeout(ctx, err, "cli generation timed out")
	}
	return apperrors.WrapExternalService(ctx, err, "cli generation failed")
}
