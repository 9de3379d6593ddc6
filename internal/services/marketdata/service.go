package marketdata

import (
	"context"
	"sync"
	"time"

	"github.com/ecoprohq/ecopro/internal/common"
	"github.com/ecoprohq/ecopro/internal/interfaces"
	"github.com/ecoprohq/ecopro/internal/models"
)

const maxConcurrentFetches = 6

// Service implements the MarketService interface. Every category fetch
// tolerates partial failure: a symbol that cannot be quoted is simply
// omitted from the result.
type Service struct {
	client interfaces.QuoteClient
	logger *common.Logger
	cache  *snapshotCache
	now    func() time.Time
}

// ServiceOption configures the service.
type ServiceOption func(*Service)

// WithClock replaces the time source, and the cache's with it.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
		s.cache.now = now
	}
}

// NewService creates a new market data service.
func NewService(client interfaces.QuoteClient, config *common.Config, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		client: client,
		logger: logger,
		cache:  newSnapshotCache(config.Market.GetCacheTTL(), time.Now),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// fetchQuotes fans out over symbols with bounded concurrency and returns
// whatever succeeded, keyed by requested symbol.
func (s *Service) fetchQuotes(ctx context.Context, symbols []string) map[string]*models.Quote {
	results := make(map[string]*models.Quote, len(symbols))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentFetches)

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			quote, err := s.client.GetQuote(ctx, symbol)
			if err != nil {
				s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Quote fetch failed")
				return
			}

			mu.Lock()
			results[symbol] = quote
			mu.Unlock()
		}(symbol)
	}

	wg.Wait()
	return results
}

// FetchIndices fetches the fixed index universe. Indices that failed or
// reported no price are omitted.
func (s *Service) FetchIndices(ctx context.Context) []models.IndexQuote {
	symbols := make([]string, len(indexSymbols))
	for i, idx := range indexSymbols {
		symbols[i] = idx.symbol
	}
	quotes := s.fetchQuotes(ctx, symbols)

	indices := make([]models.IndexQuote, 0, len(indexSymbols))
	for _, idx := range indexSymbols {
		q, ok := quotes[idx.symbol]
		if !ok || q.Price <= 0 {
			continue
		}
		indices = append(indices, models.IndexQuote{
			Symbol:        idx.symbol,
			Name:          idx.name,
			Value:         q.Price,
			Change:        q.Change,
			ChangePercent: q.ChangePercent,
		})
	}
	return indices
}

// FetchCurrencyRates fetches the fixed currency and crypto pair universe.
func (s *Service) FetchCurrencyRates(ctx context.Context) []models.CurrencyRate {
	quotes := s.fetchQuotes(ctx, currencyPairs)

	rates := make([]models.CurrencyRate, 0, len(currencyPairs))
	for _, pair := range currencyPairs {
		q, ok := quotes[pair]
		if !ok || q.Price <= 0 {
			continue
		}
		name := currencyNames[pair]
		if name == "" {
			name = pair
		}
		rates = append(rates, models.CurrencyRate{
			Pair:          name,
			Rate:          q.Price,
			Change:        q.Change,
			ChangePercent: q.ChangePercent,
		})
	}
	return rates
}

// FetchCommodities fetches the fixed commodity future universe.
func (s *Service) FetchCommodities(ctx context.Context) []models.CommodityPrice {
	symbols := make([]string, len(commoditySymbols))
	for i, com := range commoditySymbols {
		symbols[i] = com.symbol
	}
	quotes := s.fetchQuotes(ctx, symbols)

	commodities := make([]models.CommodityPrice, 0, len(commoditySymbols))
	for _, com := range commoditySymbols {
		q, ok := quotes[com.symbol]
		if !ok || q.Price <= 0 {
			continue
		}
		currency := q.Currency
		if currency == "" {
			currency = "USD"
		}
		commodities = append(commodities, models.CommodityPrice{
			Symbol:        com.symbol,
			Name:          com.name,
			Price:         q.Price,
			Change:        q.Change,
			ChangePercent: q.ChangePercent,
			Currency:      currency,
		})
	}
	return commodities
}

// FetchSectorPerformance fetches the sector-proxy ETF universe. A proxy
// with a flat zero reading is indistinguishable from a failed fetch and
// is omitted.
func (s *Service) FetchSectorPerformance(ctx context.Context) []models.SectorPerformance {
	symbols := make([]string, len(sectorProxies))
	for i, sec := range sectorProxies {
		symbols[i] = sec.symbol
	}
	quotes := s.fetchQuotes(ctx, symbols)

	sectors := make([]models.SectorPerformance, 0, len(sectorProxies))
	for _, sec := range sectorProxies {
		q, ok := quotes[sec.symbol]
		if !ok || q.ChangePercent == 0 {
			continue
		}
		sectors = append(sectors, models.SectorPerformance{
			Sector:      sec.sector,
			Performance: q.ChangePercent,
			Proxy:       sec.symbol,
		})
	}
	return sectors
}

// FetchWatchlist fetches the given symbols, or the default watchlist
// when none are given. Quotes without a positive price are omitted.
func (s *Service) FetchWatchlist(ctx context.Context, symbols []string) []models.Quote {
	if len(symbols) == 0 {
		symbols = defaultWatchlist
	}
	quotes := s.fetchQuotes(ctx, symbols)

	watchlist := make([]models.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		q, ok := quotes[symbol]
		if !ok || q.Price <= 0 {
			continue
		}
		if q.Currency == "" {
			q.Currency = "EUR"
		}
		watchlist = append(watchlist, *q)
	}
	return watchlist
}

// FetchAllLive produces a full market snapshot, fanning the five
// category fetches out concurrently. The default snapshot is served from
// the single-slot cache when fresh; custom watchlists always bypass it.
func (s *Service) FetchAllLive(ctx context.Context, watchlist []string) (*models.MarketSnapshot, bool, error) {
	isDefault := len(watchlist) == 0

	if isDefault {
		if snapshot, ok := s.cache.get(); ok {
			s.logger.Debug().Msg("Serving market snapshot from cache")
			return snapshot, true, nil
		}
	}

	snapshot := &models.MarketSnapshot{}
	var wg sync.WaitGroup
	wg.Add(5)
	go func() { defer wg.Done(); snapshot.Indices = s.FetchIndices(ctx) }()
	go func() { defer wg.Done(); snapshot.Currencies = s.FetchCurrencyRates(ctx) }()
	go func() { defer wg.Done(); snapshot.Commodities = s.FetchCommodities(ctx) }()
	go func() { defer wg.Done(); snapshot.Sectors = s.FetchSectorPerformance(ctx) }()
	go func() { defer wg.Done(); snapshot.Watchlist = s.FetchWatchlist(ctx, watchlist) }()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	snapshot.LastUpdated = s.now()

	if isDefault {
		s.cache.put(snapshot)
	}

	return snapshot, false, nil
}

// FetchHistorical fetches OHLCV bars for one symbol. Any failure
// degrades to an empty series.
func (s *Service) FetchHistorical(ctx context.Context, symbol string, period models.HistoricalPeriod) []models.HistoricalBar {
	if !period.Valid() {
		period = models.Period3Months
	}

	bars, err := s.client.GetHistory(ctx, symbol, period.StartDate(s.now()), period.Interval())
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Str("period", string(period)).Msg("Historical fetch failed")
		return []models.HistoricalBar{}
	}
	return bars
}

// SearchSymbols performs a free-text lookup, capped at ten matches.
// Failures degrade to an empty result.
func (s *Service) SearchSymbols(ctx context.Context, query string) []models.SymbolMatch {
	matches, err := s.client.Search(ctx, query)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("Symbol search failed")
		return []models.SymbolMatch{}
	}
	if len(matches) > 10 {
		matches = matches[:10]
	}
	return matches
}
