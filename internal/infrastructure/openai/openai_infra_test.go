package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	config "github.com/DRSN-tech/storefront-backend/internal/cfg"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

func testClient(t *testing.T, handler http.HandlerFunc, maxRetries int) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(&config.OpenAICfg{
		APIKey:         "test-key",
		BaseURL:        srv.URL + "/v1",
		EmbeddingModel: "text-embedding-3-small",
		ChatModel:      "gpt-4o-mini",
		Timeout:        5 * time.Second,
		MaxRetries:     maxRetries,
	}, nopLogger{})
}

func writeEmbeddingResponse(w http.ResponseWriter, vector []float32) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"object": "list",
		"model":  "text-embedding-3-small",
		"data": []map[string]any{
			{"object": "embedding", "index": 0, "embedding": vector},
		},
	})
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": message, "type": "api_error"},
	})
}

func TestEmbedText(t *testing.T) {
	var gotReq openai.EmbeddingRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/embeddings", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		writeEmbeddingResponse(w, []float32{0.1, 0.2, 0.3})
	}, 0)

	res, err := client.EmbedText(context.Background(), "Name: Laptop X")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, res.Vector)
	assert.Equal(t, "text-embedding-3-small", res.ModelVersion)
	assert.Equal(t, openai.EmbeddingModel("text-embedding-3-small"), gotReq.Model)
}

func TestEmbedText_EmptyVector(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEmbeddingResponse(w, []float32{})
	}, 0)

	_, err := client.EmbedText(context.Background(), "text")

	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrEmptyVector)
}

func TestEmbedText_RetriesOnRateLimit(t *testing.T) {
	var calls int
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			writeAPIError(w, http.StatusTooManyRequests, "rate limited")
			return
		}
		writeEmbeddingResponse(w, []float32{0.5})
	}, 2)

	res, err := client.EmbedText(context.Background(), "text")

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []float32{0.5}, res.Vector)
}

func TestEmbedText_NoRetryOnClientError(t *testing.T) {
	var calls int
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeAPIError(w, http.StatusBadRequest, "invalid input")
	}, 3)

	_, err := client.EmbedText(context.Background(), "text")

	require.Error(t, err)
	// Постоянная ошибка не ретраится.
	assert.Equal(t, 1, calls)
}

func TestGenerateInsights(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": `{"recommendations": []}`,
					},
				},
			},
		})
	}, 0)

	raw, err := client.GenerateInsights(context.Background(), "prompt text")

	require.NoError(t, err)
	assert.Equal(t, `{"recommendations": []}`, raw)

	// Ответ запрошен строго в JSON-режиме, промпт ушёл пользовательским сообщением.
	require.NotNil(t, gotReq.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, gotReq.ResponseFormat.Type)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, gotReq.Messages[0].Role)
	assert.Equal(t, "prompt text", gotReq.Messages[1].Content)
}

func TestGenerateInsights_EmptyChoices(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"choices": []map[string]any{},
		})
	}, 0)

	_, err := client.GenerateInsights(context.Background(), "prompt")

	require.Error(t, err)
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"429", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, true},
		{"500", &openai.APIError{HTTPStatusCode: http.StatusInternalServerError}, true},
		{"503 request error", &openai.RequestError{HTTPStatusCode: http.StatusServiceUnavailable}, true},
		{"400", &openai.APIError{HTTPStatusCode: http.StatusBadRequest}, false},
		{"401", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized}, false},
		{"deadline", context.DeadlineExceeded, true},
		{"context cancel", context.Canceled, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isRetryable(tc.err))
		})
	}
}
