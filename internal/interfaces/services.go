package interfaces

import (
	"context"

	"github.com/ecoprohq/ecopro/internal/models"
)

// AIService routes agent tasks to AI providers with automatic failover.
type AIService interface {
	// Analyze runs the full analysis path for an agent task: gather
	// context, complete against the routed provider, and persist parsed
	// insights for analytical agents. userMessage is only used by the
	// chat agent.
	Analyze(ctx context.Context, task models.AgentTask, userMessage string) (*models.CompletionResult, error)

	// Complete executes a single-shot completion for an agent task with
	// explicit prompts, falling back to the alternate provider on failure.
	Complete(ctx context.Context, task models.AgentTask, systemPrompt, userContent string, jsonMode bool) (*models.CompletionResult, error)

	// StreamChat executes a streaming chat turn. Frames are delivered in
	// emission order: one metadata frame first, then text deltas, then a
	// terminal sentinel frame.
	StreamChat(ctx context.Context, history []models.ChatMessage) (<-chan models.StreamFrame, error)

	// AgentsInfo returns the resolved routing table, one entry per task.
	AgentsInfo() []models.AgentInfo
}

// MarketService aggregates live market data from the external quote source.
type MarketService interface {
	// FetchAllLive produces a market snapshot. With a nil watchlist the
	// single-slot cache may serve it; cached reports whether it did.
	FetchAllLive(ctx context.Context, watchlist []string) (snapshot *models.MarketSnapshot, cached bool, err error)

	// FetchIndices fetches the fixed index universe, omitting failures.
	FetchIndices(ctx context.Context) []models.IndexQuote

	// FetchCurrencyRates fetches the fixed currency/crypto pair universe.
	FetchCurrencyRates(ctx context.Context) []models.CurrencyRate

	// FetchCommodities fetches the fixed commodity future universe.
	FetchCommodities(ctx context.Context) []models.CommodityPrice

	// FetchSectorPerformance fetches the fixed sector-proxy universe.
	FetchSectorPerformance(ctx context.Context) []models.SectorPerformance

	// FetchWatchlist fetches the given symbols, or the default watchlist
	// when symbols is empty.
	FetchWatchlist(ctx context.Context, symbols []string) []models.Quote

	// FetchHistorical fetches OHLCV bars; failures yield an empty slice.
	FetchHistorical(ctx context.Context, symbol string, period models.HistoricalPeriod) []models.HistoricalBar

	// SearchSymbols performs a free-text lookup filtered to equities and
	// ETFs; failures yield an empty slice.
	SearchSymbols(ctx context.Context, query string) []models.SymbolMatch
}
