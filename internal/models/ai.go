// Package models defines shared data types for the EcoPro server.
package models

// AgentTask names a logical consumer of an AI completion. The routing
// table binds each task to a provider and model at configuration time.
type AgentTask string

const (
	AgentProject  AgentTask = "project"
	AgentBusiness AgentTask = "business"
	AgentMarket   AgentTask = "market"
	AgentChat     AgentTask = "chat"
)

// KnownAgentTasks returns all agent tasks in display order.
func KnownAgentTasks() []AgentTask {
	return []AgentTask{AgentProject, AgentBusiness, AgentMarket, AgentChat}
}

// Valid reports whether the task is one of the known agent tasks.
func (a AgentTask) Valid() bool {
	switch a {
	case AgentProject, AgentBusiness, AgentMarket, AgentChat:
		return true
	}
	return false
}

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single turn in a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the provider-neutral request shape passed to chat clients.
type ChatRequest struct {
	Model       string
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
	JSONMode    bool
}

// TokenUsage carries token counters reported by a provider. It is only
// populated when the provider reported usage; counters are never synthesized.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the provider-neutral response from a single-shot call.
type ChatResponse struct {
	Content string
	Usage   *TokenUsage
}

// ChatDelta is one incremental unit from a streaming chat call. The channel
// is closed after the final delta; a non-nil Err terminates the stream.
type ChatDelta struct {
	Text string
	Err  error
}

// CompletionResult is the normalized output of a routed completion,
// including provenance for whichever provider actually served it.
type CompletionResult struct {
	Content    string      `json:"content"`
	Provider   string      `json:"provider"`
	Model      string      `json:"model"`
	ModelLabel string      `json:"model_label"`
	Usage      *TokenUsage `json:"usage,omitempty"`
}

// StreamMeta identifies the provider and model serving a chat stream.
// It is always the first frame delivered.
type StreamMeta struct {
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	ModelLabel string `json:"model_label"`
}

// StreamFrame is one unit of a streamed chat response: a metadata frame,
// a text delta, or the terminal sentinel.
type StreamFrame struct {
	Meta *StreamMeta `json:"meta,omitempty"`
	Text string      `json:"text,omitempty"`
	Done bool        `json:"-"`
}

// AgentInfo describes the resolved routing for one agent task.
type AgentInfo struct {
	AgentTask  AgentTask `json:"agent_task"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	ModelLabel string    `json:"model_label"`
}

// InsightDocument is the JSON contract analytical agents are prompted to
// return: a list of insights plus an executive summary.
type InsightDocument struct {
	Insights []InsightItem `json:"insights"`
	Summary  string        `json:"summary"`
}

// InsightItem is one insight as emitted by an analytical agent.
type InsightItem struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	Severity          string `json:"severity"`
	Recommendation    string `json:"recommendation"`
	RelatedEntityID   string `json:"relatedEntityId"`
	RelatedEntityType string `json:"relatedEntityType"`
}
