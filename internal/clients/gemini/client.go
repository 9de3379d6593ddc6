// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/ecoprohq/ecopro/internal/common"
	"github.com/ecoprohq/ecopro/internal/models"
)

// Client implements the ChatClient interface on the Gemini API.
type Client struct {
	client *genai.Client
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// buildContents maps provider-neutral chat messages onto the Gemini
// conversation shape. System messages become the system instruction;
// assistant messages take the "model" role.
func buildContents(req *models.ChatRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{}

	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSONMode {
		config.ResponseMIMEType = "application/json"
	}

	var contents []*genai.Content
	for _, m := range req.Messages {
		switch m.Role {
		case models.RoleSystem:
			config.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: m.Content}},
			}
		case models.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: m.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: m.Content}},
			})
		}
	}

	return contents, config
}

// Complete issues a single-shot chat completion.
func (c *Client) Complete(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	c.logger.Debug().Str("model", req.Model).Msg("Gemini chat request")

	contents, config := buildContents(req)
	result, err := c.client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(result)
	if err != nil {
		return nil, err
	}

	resp := &models.ChatResponse{Content: text}
	if result.UsageMetadata != nil {
		resp.Usage = &models.TokenUsage{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}
	}
	return resp, nil
}

// Stream issues a streaming chat completion, re-framing each response
// chunk as a ChatDelta.
func (c *Client) Stream(ctx context.Context, req *models.ChatRequest) (<-chan models.ChatDelta, error) {
	c.logger.Debug().Str("model", req.Model).Msg("Gemini streaming chat request")

	contents, config := buildContents(req)
	out := make(chan models.ChatDelta)

	go func() {
		defer close(out)
		for result, err := range c.client.Models.GenerateContentStream(ctx, req.Model, contents, config) {
			if err != nil {
				select {
				case out <- models.ChatDelta{Err: fmt.Errorf("stream failed: %w", err)}:
				case <-ctx.Done():
				}
				return
			}

			text := chunkText(result)
			if text == "" {
				continue
			}

			select {
			case out <- models.ChatDelta{Text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func chunkText(result *genai.GenerateContentResponse) string {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}
