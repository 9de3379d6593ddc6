// Package groq provides a client for the Groq OpenAI-compatible chat API.
package groq

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ecoprohq/ecopro/internal/common"
	"github.com/ecoprohq/ecopro/internal/models"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultTimeout = 60 * time.Second
)

// Client implements the ChatClient interface against an OpenAI-compatible
// chat-completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithLogger sets the logger.
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout for single-shot calls.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Groq client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a provider-side error.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Groq API error: %s (status: %d)", e.Message, e.StatusCode)
}

// --- wire shapes (OpenAI chat-completions contract) ---

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireResponseFormat struct {
	Type string `json:"type"`
}

type wireRequest struct {
	Model          string              `json:"model"`
	Messages       []wireMessage       `json:"messages"`
	Temperature    float64             `json:"temperature"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	Stream         bool                `json:"stream,omitempty"`
	ResponseFormat *wireResponseFormat `json:"response_format,omitempty"`
}

type wireUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type wireResponse struct {
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
	Usage *wireUsage `json:"usage"`
}

type wireChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func buildWireRequest(req *models.ChatRequest, stream bool) *wireRequest {
	wr := &wireRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      stream,
	}
	for _, m := range req.Messages {
		wr.Messages = append(wr.Messages, wireMessage{Role: m.Role, Content: m.Content})
	}
	if req.JSONMode && !stream {
		wr.ResponseFormat = &wireResponseFormat{Type: "json_object"}
	}
	return wr
}

func (c *Client) post(ctx context.Context, wr *wireRequest) (*http.Response, error) {
	body, err := json.Marshal(wr)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug().Str("model", wr.Model).Bool("stream", wr.Stream).Msg("Groq chat request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	return resp, nil
}

// Complete issues a single-shot chat completion.
func (c *Client) Complete(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	resp, err := c.post(ctx, buildWireRequest(req, false))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var wr wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(wr.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	result := &models.ChatResponse{
		Content: wr.Choices[0].Message.Content,
	}
	if wr.Usage != nil {
		result.Usage = &models.TokenUsage{
			PromptTokens:     wr.Usage.PromptTokens,
			CompletionTokens: wr.Usage.CompletionTokens,
			TotalTokens:      wr.Usage.TotalTokens,
		}
	}
	return result, nil
}

// Stream issues a streaming chat completion and re-frames each SSE chunk
// as a ChatDelta. The stream goroutine exits when the body is exhausted
// or ctx is cancelled; the response body is always closed.
func (c *Client) Stream(ctx context.Context, req *models.ChatRequest) (<-chan models.ChatDelta, error) {
	resp, err := c.post(ctx, buildWireRequest(req, true))
	if err != nil {
		return nil, err
	}

	out := make(chan models.ChatDelta)
	go c.streamReader(ctx, resp.Body, out)
	return out, nil
}

func (c *Client) streamReader(ctx context.Context, body io.ReadCloser, out chan<- models.ChatDelta) {
	defer close(out)
	defer body.Close()

	scanner := bufio.NewScanner(body)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			return
		}

		var chunk wireChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to decode stream chunk")
			select {
			case out <- models.ChatDelta{Err: fmt.Errorf("failed to decode stream chunk: %w", err)}:
			case <-ctx.Done():
			}
			return
		}

		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}

		select {
		case out <- models.ChatDelta{Text: chunk.Choices[0].Delta.Content}:
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil {
		select {
		case out <- models.ChatDelta{Err: fmt.Errorf("stream read error: %w", err)}:
		case <-ctx.Done():
		}
	}
}
