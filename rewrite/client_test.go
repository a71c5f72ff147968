package rewrite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/longreader/errors"
)

func toolCallBody(args string) string {
	encoded, _ := json.Marshal(args)
	return fmt.Sprintf(`{
		"id": "msg_1",
		"object": "chat.completion",
		"created": 1,
		"model": "claude-sonnet-4-5",
		"choices": [{
			"index": 0,
			"finish_reason": "tool_calls",
			"message": {
				"role": "assistant",
				"content": "",
				"tool_calls": [{
					"id": "call_1",
					"type": "function",
					"function": {"name": "read_aloud", "arguments": %s}
				}]
			}
		}]
	}`, encoded)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return New(Config{BaseURL: srv.URL + "/v1", APIKey: "test-key"}), &calls
}

func TestExecute_ReturnsProcessedText(t *testing.T) {
	var got map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, toolCallBody(`{"processed_text":"Hello world."}`))
	})

	out, err := client.Execute(context.Background(), "Hello\nworld.[1]")
	require.NoError(t, err)
	assert.Equal(t, "Hello world.", out)

	assert.Equal(t, DefaultModel, got["model"])
	assert.InDelta(t, 0.1, got["temperature"], 1e-6)
	assert.EqualValues(t, DefaultMaxTokens, got["max_tokens"])

	choice, ok := got["tool_choice"].(map[string]any)
	require.True(t, ok, "tool_choice must force a function")
	assert.Equal(t, "function", choice["type"])
	assert.Equal(t, ToolName, choice["function"].(map[string]any)["name"])

	messages := got["messages"].([]any)
	require.Len(t, messages, 1)
	content := messages[0].(map[string]any)["content"].(string)
	assert.Contains(t, content, "<text>\nHello\nworld.[1]\n</text>")
}

func TestExecute_InputTooLarge(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request may be sent for oversize input")
	})

	_, err := client.Execute(context.Background(), strings.Repeat("a", DefaultMaxInputChars+1))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInputTooLarge))
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestExecute_LimitCountsCharacters(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, toolCallBody(`{"processed_text":"ok"}`))
	})

	// 4096 two-byte characters are within the limit.
	_, err := client.Execute(context.Background(), strings.Repeat("é", DefaultMaxInputChars))
	require.NoError(t, err)
}

func TestExecute_RemoteError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"type":"rate_limit_error","message":"slow down"}}`)
	})

	_, err := client.Execute(context.Background(), "text")
	require.Error(t, err)
	require.True(t, errors.IsCode(err, errors.ErrCodeRemoteService))

	appErr, _ := errors.AsAppError(err)
	assert.Equal(t, http.StatusTooManyRequests, appErr.Details["status"])
	assert.Equal(t, "slow down", appErr.Details["diagnostic"])
}

func TestExecute_UnexpectedShape(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no tool call", `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"I cannot."}}]}`},
		{"missing field", toolCallBody(`{"text":"Hello."}`)},
		{"empty field", toolCallBody(`{"processed_text":"  "}`)},
		{"broken arguments", toolCallBody(`{"processed_text":`)},
		{"no choices", `{"id":"x","object":"chat.completion","choices":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, tt.body)
			})

			_, err := client.Execute(context.Background(), "text")
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeUnexpectedResponse), "got %v", err)
		})
	}
}

func TestExecute_Cancelled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Execute(ctx, "text")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsAvailable(t *testing.T) {
	assert.False(t, New(Config{}).IsAvailable(context.Background()))
	assert.True(t, New(Config{APIKey: "k"}).IsAvailable(context.Background()))
	assert.Equal(t, "rewrite", New(Config{}).Name())
}
