// Package interfaces defines service contracts for the EcoPro server.
package interfaces

import (
	"context"
	"time"

	"github.com/ecoprohq/ecopro/internal/models"
)

// ChatClient is the provider-neutral contract implemented by each AI
// provider client. Provider SDK shapes never cross this boundary; both
// implementations map their raw responses into models types.
type ChatClient interface {
	// Complete issues a single-shot chat completion.
	Complete(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error)

	// Stream issues a streaming chat completion. The returned channel is
	// closed when the stream ends; a delta with a non-nil Err terminates it.
	// The underlying connection is released when ctx is cancelled.
	Stream(ctx context.Context, req *models.ChatRequest) (<-chan models.ChatDelta, error)
}

// QuoteClient provides access to the external quote source.
type QuoteClient interface {
	// GetQuote retrieves the latest quote for one symbol.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// GetHistory retrieves OHLCV bars for a symbol from start to now at
	// the given interval ("1d" or "1wk").
	GetHistory(ctx context.Context, symbol string, start time.Time, interval string) ([]models.HistoricalBar, error)

	// Search performs a free-text symbol lookup.
	Search(ctx context.Context, query string) ([]models.SymbolMatch, error)
}
