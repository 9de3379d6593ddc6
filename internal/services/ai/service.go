package ai

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ecoprohq/ecopro/internal/clients/gemini"
	"github.com/ecoprohq/ecopro/internal/clients/groq"
	"github.com/ecoprohq/ecopro/internal/common"
	"github.com/ecoprohq/ecopro/internal/interfaces"
	"github.com/ecoprohq/ecopro/internal/models"
)

// ClientFactory builds a chat client for a provider. Injectable so tests
// can substitute fakes without touching the network.
type ClientFactory func(ctx context.Context, provider ProviderName, apiKey string) (interfaces.ChatClient, error)

// Service implements the AIService interface: per-agent provider routing
// with a single failover to the alternate provider.
type Service struct {
	storage   interfaces.StorageManager
	market    interfaces.MarketService
	logger    *common.Logger
	config    *common.Config
	lookupEnv func(string) string
	newClient ClientFactory
	now       func() time.Time

	mu      sync.Mutex
	clients map[ProviderName]interfaces.ChatClient
}

// ServiceOption configures the service.
type ServiceOption func(*Service)

// WithClientFactory replaces the provider client factory.
func WithClientFactory(factory ClientFactory) ServiceOption {
	return func(s *Service) {
		s.newClient = factory
	}
}

// WithEnvLookup replaces the environment lookup.
func WithEnvLookup(lookup func(string) string) ServiceOption {
	return func(s *Service) {
		s.lookupEnv = lookup
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new AI service.
func NewService(storage interfaces.StorageManager, market interfaces.MarketService, config *common.Config, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		storage:   storage,
		market:    market,
		logger:    logger,
		config:    config,
		lookupEnv: os.Getenv,
		now:       time.Now,
		clients:   make(map[ProviderName]interfaces.ChatClient),
	}
	s.newClient = s.defaultClientFactory

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) records() interfaces.RecordStore {
	return s.storage.RecordStore()
}

func (s *Service) defaultClientFactory(ctx context.Context, provider ProviderName, apiKey string) (interfaces.ChatClient, error) {
	timeout := s.config.Clients.AI.GetTimeout()
	switch provider {
	case ProviderGroq:
		return groq.NewClient(apiKey,
			groq.WithLogger(s.logger),
			groq.WithTimeout(timeout),
		), nil
	case ProviderGemini:
		return gemini.NewClient(ctx, apiKey, gemini.WithLogger(s.logger))
	}
	return nil, fmt.Errorf("unknown provider: %s", provider)
}

// getClient returns the cached client for a provider, creating it on
// first use. A missing credential is a ConfigError naming the env var.
func (s *Service) getClient(ctx context.Context, provider ProviderName) (interfaces.ChatClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if client, ok := s.clients[provider]; ok {
		return client, nil
	}

	profile := providerProfiles[provider]
	apiKey := s.lookupEnv(profile.keyEnvVar)
	if apiKey == "" {
		return nil, &ConfigError{Message: fmt.Sprintf("missing API key for %s: set %s", profile.label, profile.keyEnvVar)}
	}

	client, err := s.newClient(ctx, provider, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", profile.label, err)
	}

	s.clients[provider] = client
	return client, nil
}

// checkCredentials fails fast with a ConfigError when no provider has a
// credential configured at all.
func (s *Service) checkCredentials() error {
	groqKey := s.lookupEnv(providerProfiles[ProviderGroq].keyEnvVar)
	geminiKey := s.lookupEnv(providerProfiles[ProviderGemini].keyEnvVar)
	if groqKey == "" && geminiKey == "" {
		return &ConfigError{Message: "no AI provider configured: set GROQ_API_KEY or GEMINI_API_KEY"}
	}
	return nil
}

// attempt executes one completion against one provider. JSON mode is
// requested only when the provider advertises support for it; otherwise
// the prompt's output contract alone constrains the response.
func (s *Service) attempt(ctx context.Context, route agentRoute, systemPrompt, userContent string, jsonMode bool) (*models.CompletionResult, error) {
	client, err := s.getClient(ctx, route.provider)
	if err != nil {
		return nil, err
	}

	profile := providerProfiles[route.provider]
	resp, err := client.Complete(ctx, &models.ChatRequest{
		Model: route.model,
		Messages: []models.ChatMessage{
			{Role: models.RoleSystem, Content: systemPrompt},
			{Role: models.RoleUser, Content: userContent},
		},
		Temperature: route.temperature,
		MaxTokens:   route.maxTokens,
		JSONMode:    jsonMode && profile.supportsJSONMode,
	})
	if err != nil {
		return nil, err
	}

	return &models.CompletionResult{
		Content:    resp.Content,
		Provider:   profile.label,
		Model:      route.model,
		ModelLabel: profile.displayLabel(route.model),
		Usage:      resp.Usage,
	}, nil
}

// Complete executes a single-shot completion for an agent task, failing
// over once to the alternate provider's default model.
func (s *Service) Complete(ctx context.Context, task models.AgentTask, systemPrompt, userContent string, jsonMode bool) (*models.CompletionResult, error) {
	route, err := s.resolveRoute(task)
	if err != nil {
		return nil, err
	}
	if err := s.checkCredentials(); err != nil {
		return nil, err
	}

	result, primaryErr := s.attempt(ctx, route, systemPrompt, userContent, jsonMode)
	if primaryErr == nil {
		return result, nil
	}

	primary := providerProfiles[route.provider]
	s.logger.Warn().
		Err(primaryErr).
		Str("provider", string(route.provider)).
		Str("agent", string(task)).
		Msg("Primary AI provider failed, trying fallback")

	fb := fallbackRoute(route)
	result, fallbackErr := s.attempt(ctx, fb, systemPrompt, userContent, jsonMode)
	if fallbackErr == nil {
		s.logger.Info().
			Str("provider", string(fb.provider)).
			Str("agent", string(task)).
			Msg("Fallback AI provider served the request")
		return result, nil
	}

	s.logger.Error().
		Err(fallbackErr).
		Str("provider", string(fb.provider)).
		Str("agent", string(task)).
		Msg("Fallback AI provider failed")

	return nil, &ExhaustedError{
		Primary:     primary.label,
		Fallback:    providerProfiles[fb.provider].label,
		PrimaryErr:  primaryErr,
		FallbackErr: fallbackErr,
	}
}

// Analyze runs the full analysis path for an agent task. Analytical
// agents request JSON output and persist the parsed insights; the chat
// agent answers the user message directly.
func (s *Service) Analyze(ctx context.Context, task models.AgentTask, userMessage string) (*models.CompletionResult, error) {
	if !task.Valid() {
		return nil, &ConfigError{Message: fmt.Sprintf("unknown agent task: %q", task)}
	}

	contextData := s.gatherContext(ctx, task)

	var userContent string
	now := s.now()
	switch task {
	case models.AgentProject:
		userContent = projectUserPrompt(contextData, now)
	case models.AgentBusiness:
		userContent = businessUserPrompt(contextData, now)
	case models.AgentMarket:
		userContent = marketUserPrompt(contextData, now)
	default:
		userContent = chatUserPrompt(contextData, userMessage)
	}

	jsonMode := task != models.AgentChat
	result, err := s.Complete(ctx, task, systemPromptFor(task), userContent, jsonMode)
	if err != nil {
		return nil, err
	}

	if jsonMode {
		s.persistInsights(ctx, task, result.Content)
	}

	return result, nil
}

// AgentsInfo returns the resolved routing table.
func (s *Service) AgentsInfo() []models.AgentInfo {
	infos := make([]models.AgentInfo, 0, len(models.KnownAgentTasks()))
	for _, task := range models.KnownAgentTasks() {
		route, err := s.resolveRoute(task)
		if err != nil {
			continue
		}
		profile := providerProfiles[route.provider]
		infos = append(infos, models.AgentInfo{
			AgentTask:  task,
			Provider:   profile.label,
			Model:      route.model,
			ModelLabel: profile.displayLabel(route.model),
		})
	}
	return infos
}
