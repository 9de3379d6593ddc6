package groq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoprohq/ecopro/internal/models"
)

func TestComplete(t *testing.T) {
	var gotReq wireRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "hello there"}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	resp, err := client.Complete(context.Background(), &models.ChatRequest{
		Model:       "llama-3.3-70b-versatile",
		Messages:    []models.ChatMessage{{Role: models.RoleUser, Content: "hi"}},
		Temperature: 0.5,
		MaxTokens:   100,
	})
	require.NoError(t, err)

	assert.Equal(t, "hello there", resp.Content)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 17, resp.Usage.TotalTokens)

	assert.Equal(t, "llama-3.3-70b-versatile", gotReq.Model)
	assert.Equal(t, 0.5, gotReq.Temperature)
	assert.Equal(t, 100, gotReq.MaxTokens)
	assert.False(t, gotReq.Stream)
}

func TestCompleteJSONMode(t *testing.T) {
	var gotReq wireRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"choices": [{"message": {"content": "{}"}}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	_, err := client.Complete(context.Background(), &models.ChatRequest{
		Model:    "llama-3.3-70b-versatile",
		Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "hi"}},
		JSONMode: true,
	})
	require.NoError(t, err)

	require.NotNil(t, gotReq.ResponseFormat)
	assert.Equal(t, "json_object", gotReq.ResponseFormat.Type)
}

func TestCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limit exceeded"}}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	_, err := client.Complete(context.Background(), &models.ChatRequest{
		Model:    "llama-3.3-70b-versatile",
		Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "hi"}},
	})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "rate limit exceeded")
}

func TestStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req wireRequest
		json.NewDecoder(r.Body).Decode(&req)
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n"))
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n"))
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"\"}}]}\n\n"))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	deltas, err := client.Stream(context.Background(), &models.ChatRequest{
		Model:    "llama-3.3-70b-versatile",
		Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	var text string
	for delta := range deltas {
		require.NoError(t, delta.Err)
		text += delta.Text
	}
	assert.Equal(t, "Hello", text)
}

func TestStreamClosesAfterContextCancel(t *testing.T) {
	handlerDone := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(handlerDone)
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n"))
		w.(http.Flusher).Flush()
		// Hold the stream open until the consumer disconnects.
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient("test-key", WithBaseURL(server.URL))
	deltas, err := client.Stream(ctx, &models.ChatRequest{
		Model:    "llama-3.3-70b-versatile",
		Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	first := <-deltas
	require.NoError(t, first.Err)
	assert.Equal(t, "Hel", first.Text)

	cancel()

	// The reader goroutine must release the stream and close the channel
	// even though nobody is guaranteed to receive its error delta.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-deltas:
			if !ok {
				<-handlerDone
				return
			}
		case <-deadline:
			t.Fatal("stream channel did not close after cancellation")
		}
	}
}

func TestStreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("invalid api key"))
	}))
	defer server.Close()

	client := NewClient("bad-key", WithBaseURL(server.URL))
	_, err := client.Stream(context.Background(), &models.ChatRequest{
		Model:    "llama-3.3-70b-versatile",
		Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "hi"}},
	})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
