// Package ai routes agent completions across AI providers with failover.
package ai

import (
	"fmt"
	"strings"

	"github.com/ecoprohq/ecopro/internal/models"
)

// ProviderName identifies a configured AI provider.
type ProviderName string

const (
	ProviderGroq   ProviderName = "groq"
	ProviderGemini ProviderName = "gemini"
)

// providerProfile holds the static configuration of one provider.
type providerProfile struct {
	name              ProviderName
	label             string
	keyEnvVar         string
	defaultModel      string
	supportsJSONMode  bool
	supportsStreaming bool
	modelLabels       map[string]string
}

var providerProfiles = map[ProviderName]providerProfile{
	ProviderGroq: {
		name:              ProviderGroq,
		label:             "Groq",
		keyEnvVar:         "GROQ_API_KEY",
		defaultModel:      "llama-3.3-70b-versatile",
		supportsJSONMode:  true,
		supportsStreaming: true,
		modelLabels: map[string]string{
			"llama-3.3-70b-versatile": "Llama 3.3 70B",
			"llama-3.1-8b-instant":    "Llama 3.1 8B (fast)",
			"mixtral-8x7b-32768":      "Mixtral 8x7B",
			"gemma2-9b-it":            "Gemma 2 9B",
		},
	},
	ProviderGemini: {
		name:              ProviderGemini,
		label:             "Google Gemini",
		keyEnvVar:         "GEMINI_API_KEY",
		defaultModel:      "gemini-2.0-flash",
		supportsJSONMode:  true,
		supportsStreaming: true,
		modelLabels: map[string]string{
			"gemini-2.0-flash":      "Gemini 2.0 Flash",
			"gemini-2.0-flash-lite": "Gemini 2.0 Flash Lite",
			"gemini-1.5-flash":      "Gemini 1.5 Flash",
		},
	},
}

// alternate returns the other provider, used for failover.
func alternate(p ProviderName) ProviderName {
	if p == ProviderGroq {
		return ProviderGemini
	}
	return ProviderGroq
}

// displayLabel renders the combined provider and model label shown to users.
func (p providerProfile) displayLabel(model string) string {
	label := p.modelLabels[model]
	if label == "" {
		label = model
	}
	return p.label + " · " + label
}

// agentRoute binds an agent task to a provider, model and sampling settings.
type agentRoute struct {
	provider    ProviderName
	model       string
	temperature float64
	maxTokens   int
}

var defaultRoutes = map[models.AgentTask]agentRoute{
	models.AgentProject:  {provider: ProviderGroq, model: "llama-3.3-70b-versatile", temperature: 0.3, maxTokens: 2000},
	models.AgentBusiness: {provider: ProviderGemini, model: "gemini-2.0-flash", temperature: 0.3, maxTokens: 2000},
	models.AgentMarket:   {provider: ProviderGroq, model: "llama-3.3-70b-versatile", temperature: 0.4, maxTokens: 2000},
	models.AgentChat:     {provider: ProviderGroq, model: "llama-3.3-70b-versatile", temperature: 0.5, maxTokens: 1500},
}

// resolveRoute returns the route for a task with environment overrides
// applied. AI_<TASK>_PROVIDER switches provider (unknown names are
// ignored); AI_<TASK>_MODEL overrides the model unconditionally.
func (s *Service) resolveRoute(task models.AgentTask) (agentRoute, error) {
	route, ok := defaultRoutes[task]
	if !ok {
		return agentRoute{}, &ConfigError{Message: fmt.Sprintf("unknown agent task: %q", task)}
	}

	prefix := "AI_" + strings.ToUpper(string(task))
	if override := s.lookupEnv(prefix + "_PROVIDER"); override != "" {
		if _, known := providerProfiles[ProviderName(override)]; known {
			route.provider = ProviderName(override)
		}
	}
	if override := s.lookupEnv(prefix + "_MODEL"); override != "" {
		route.model = override
	}

	return route, nil
}

// fallbackRoute derives the failover route: the alternate provider on
// its own default model, keeping the task's sampling settings.
func fallbackRoute(route agentRoute) agentRoute {
	alt := alternate(route.provider)
	return agentRoute{
		provider:    alt,
		model:       providerProfiles[alt].defaultModel,
		temperature: route.temperature,
		maxTokens:   route.maxTokens,
	}
}
