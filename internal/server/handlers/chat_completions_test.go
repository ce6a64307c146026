package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/clibridge/clibridge/internal/bridge"
	"github.com/clibridge/clibridge/internal/runner"
)

type stubGenerator struct {
	text string
	err  error

	gotInput bridge.CLIInput
}

func (s *stubGenerator) Generate(ctx context.Context, input bridge.CLIInput) (*runner.Result, error) {
	s.gotInput = input
	if s.err != nil {
		return nil, s.err
	}
	return &runner.Result{
		Text:     s.text,
		Model:    input.Model,
		Duration: 10 * time.Millisecond,
	}, nil
}

func postChat(t *testing.T, handler *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ChatCompletions(rec, req)
	return rec
}

func TestChatCompletionsReturnsCompletion(t *testing.T) {
	gen := &stubGenerator{text: "hi there"}
	handler := NewChatHandler(gen)

	rec := postChat(t, handler, `{
		"model": "claude-sonnet-4",
		"messages": [
			{"role": "system", "content": "be nice"},
			{"role": "user", "content": "hello"}
		]
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ChatCompletionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Object != "chat.completion" {
		t.Fatalf("expected chat.completion object, got %s", resp.Object)
	}
	if !strings.HasPrefix(resp.ID, "chatcmpl-") {
		t.Fatalf("expected chatcmpl- id prefix, got %s", resp.ID)
	}
	if resp.Model != "sonnet" {
		t.Fatalf("expected sonnet model, got %s", resp.Model)
	}
	if len(resp.Choices) != 1 {
		t.Fatalf("expected exactly one choice, got %d", len(resp.Choices))
	}
	if resp.Choices[0].Message.Content != "hi there" {
		t.Fatalf("unexpected content: %q", resp.Choices[0].Message.Content)
	}
	if resp.Choices[0].FinishReason != "stop" {
		t.Fatalf("expected stop finish reason, got %s", resp.Choices[0].FinishReason)
	}
	if resp.Usage.TotalTokens != resp.Usage.PromptTokens+resp.Usage.CompletionTokens {
		t.Fatalf("usage does not add up: %+v", resp.Usage)
	}

	wantPrompt := "<system>\nbe nice\n</system>\n\nhello"
	if gen.gotInput.Prompt != wantPrompt {
		t.Fatalf("unexpected prompt: %q", gen.gotInput.Prompt)
	}
}

func TestChatCompletionsPassesSessionID(t *testing.T) {
	gen := &stubGenerator{text: "ok"}
	handler := NewChatHandler(gen)

	rec := postChat(t, handler, `{
		"messages": [{"role": "user", "content": "hi"}],
		"user": "caller-7"
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if gen.gotInput.SessionID != "caller-7" {
		t.Fatalf("expected session id caller-7, got %q", gen.gotInput.SessionID)
	}
}

func TestChatCompletionsRejectsInvalidJSON(t *testing.T) {
	handler := NewChatHandler(&stubGenerator{})

	rec := postChat(t, handler, `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var resp struct {
		Error struct {
			Code string `json:"code"`
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != "INVALID_INPUT" {
		t.Fatalf("expected INVALID_INPUT, got %s", resp.Error.Code)
	}
	if resp.Error.Type != "invalid_request_error" {
		t.Fatalf("expected invalid_request_error type, got %s", resp.Error.Type)
	}
}

func TestChatCompletionsRejectsEmptyMessages(t *testing.T) {
	handler := NewChatHandler(&stubGenerator{})

	rec := postChat(t, handler, `{"messages": []}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestChatCompletionsMapsTimeout(t *testing.T) {
	handler := NewChatHandler(&stubGenerator{err: context.DeadlineExceeded})

	rec := postChat(t, handler, `{"messages": [{"role": "user", "content": "hi"}]}`)

	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected status 504, got %d", rec.Code)
	}
}

func TestChatCompletionsStreaming(t *testing.T) {
	gen := &stubGenerator{text: "streamed answer"}
	handler := NewChatHandler(gen)

	rec := postChat(t, handler, `{
		"messages": [{"role": "user", "content": "hi"}],
		"stream": true
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected text/event-stream, got %s", ct)
	}

	body := rec.Body.String()
	if !strings.HasSuffix(strings.TrimSpace(body), "data: [DONE]") {
		t.Fatalf("expected stream to end with [DONE], got:\n%s", body)
	}

	var sawRole, sawContent, sawFinish bool
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") || line == "data: [DONE]" {
			continue
		}

		var chunk chatChunk
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &chunk); err != nil {
			t.Fatalf("failed to decode chunk %q: %v", line, err)
		}
		if chunk.Object != "chat.completion.chunk" {
			t.Fatalf("expected chat.completion.chunk, got %s", chunk.Object)
		}
		if len(chunk.Choices) != 1 {
			t.Fatalf("expected one choice per chunk, got %d", len(chunk.Choices))
		}

		choice := chunk.Choices[0]
		if choice.Delta.Role == "assistant" {
			sawRole = true
		}
		if choice.Delta.Content == "streamed answer" {
			sawContent = true
		}
		if choice.FinishReason != nil && *choice.FinishReason == "stop" {
			sawFinish = true
		}
	}

	if !sawRole || !sawContent || !sawFinish {
		t.Fatalf("missing chunks: role=%v content=%v finish=%v", sawRole, sawContent, sawFinish)
	}
}
