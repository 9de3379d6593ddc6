package marketdata

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ecoprohq/ecopro/internal/common"
	"github.com/ecoprohq/ecopro/internal/models"
)

type fakeQuoteClient struct {
	mu         sync.Mutex
	requested  []string
	getQuoteFn func(ctx context.Context, symbol string) (*models.Quote, error)
	historyFn  func(ctx context.Context, symbol string, start time.Time, interval string) ([]models.HistoricalBar, error)
	searchFn   func(ctx context.Context, query string) ([]models.SymbolMatch, error)
}

func (f *fakeQuoteClient) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	f.mu.Lock()
	f.requested = append(f.requested, symbol)
	f.mu.Unlock()
	if f.getQuoteFn == nil {
		return &models.Quote{Symbol: symbol, Name: symbol, Price: 100, Change: 1, ChangePercent: 1}, nil
	}
	return f.getQuoteFn(ctx, symbol)
}

func (f *fakeQuoteClient) GetHistory(ctx context.Context, symbol string, start time.Time, interval string) ([]models.HistoricalBar, error) {
	if f.historyFn == nil {
		return nil, nil
	}
	return f.historyFn(ctx, symbol, start, interval)
}

func (f *fakeQuoteClient) Search(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	if f.searchFn == nil {
		return nil, nil
	}
	return f.searchFn(ctx, query)
}

func (f *fakeQuoteClient) requestedSymbols() map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := make(map[string]bool, len(f.requested))
	for _, s := range f.requested {
		set[s] = true
	}
	return set
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(client *fakeQuoteClient, opts ...ServiceOption) *Service {
	return NewService(client, common.NewDefaultConfig(), common.NewSilentLogger(), opts...)
}

func TestFetchIndicesOmitsFailures(t *testing.T) {
	client := &fakeQuoteClient{
		getQuoteFn: func(ctx context.Context, symbol string) (*models.Quote, error) {
			switch symbol {
			case "^GSPC", "^N225":
				return nil, errors.New("source unavailable")
			}
			return &models.Quote{Symbol: symbol, Price: 1000, Change: 5, ChangePercent: 0.5}, nil
		},
	}
	svc := newTestService(client)

	indices := svc.FetchIndices(context.Background())
	if len(indices) != 4 {
		t.Fatalf("expected 4 indices after 2 failures, got %d", len(indices))
	}
	// Fixed universe order is preserved regardless of fetch completion order.
	if indices[0].Name != "FTSE MIB" || indices[1].Name != "Euro Stoxx 50" {
		t.Errorf("unexpected ordering: %v, %v", indices[0].Name, indices[1].Name)
	}
	for _, idx := range indices {
		if idx.Symbol == "^GSPC" || idx.Symbol == "^N225" {
			t.Errorf("failed symbol %s must be omitted", idx.Symbol)
		}
	}
}

func TestFetchIndicesOmitsZeroValues(t *testing.T) {
	client := &fakeQuoteClient{
		getQuoteFn: func(ctx context.Context, symbol string) (*models.Quote, error) {
			if symbol == "^DJI" {
				return &models.Quote{Symbol: symbol, Price: 0}, nil
			}
			return &models.Quote{Symbol: symbol, Price: 1000}, nil
		},
	}
	svc := newTestService(client)

	indices := svc.FetchIndices(context.Background())
	for _, idx := range indices {
		if idx.Symbol == "^DJI" {
			t.Error("zero-value index must be treated as no data")
		}
	}
	if len(indices) != 5 {
		t.Errorf("expected 5 indices, got %d", len(indices))
	}
}

func TestFetchCurrencyRatesUsesDisplayNames(t *testing.T) {
	client := &fakeQuoteClient{}
	svc := newTestService(client)

	rates := svc.FetchCurrencyRates(context.Background())
	if len(rates) != 6 {
		t.Fatalf("expected 6 rates, got %d", len(rates))
	}
	if rates[0].Pair != "EUR/USD" {
		t.Errorf("expected display name EUR/USD, got %s", rates[0].Pair)
	}
	if rates[4].Pair != "BTC/EUR" {
		t.Errorf("expected display name BTC/EUR, got %s", rates[4].Pair)
	}
}

func TestFetchSectorPerformanceOmitsFlatReadings(t *testing.T) {
	client := &fakeQuoteClient{
		getQuoteFn: func(ctx context.Context, symbol string) (*models.Quote, error) {
			if symbol == "XLE" {
				return &models.Quote{Symbol: symbol, Price: 90, ChangePercent: 0}, nil
			}
			return &models.Quote{Symbol: symbol, Price: 90, ChangePercent: -1.2}, nil
		},
	}
	svc := newTestService(client)

	sectors := svc.FetchSectorPerformance(context.Background())
	if len(sectors) != 6 {
		t.Fatalf("expected 6 sectors after omitting the flat one, got %d", len(sectors))
	}
	for _, sec := range sectors {
		if sec.Proxy == "XLE" {
			t.Error("flat sector reading must be omitted")
		}
		if sec.Performance != -1.2 {
			t.Errorf("unexpected performance: %f", sec.Performance)
		}
	}
}

func TestFetchWatchlistDefaultsAndFilters(t *testing.T) {
	client := &fakeQuoteClient{
		getQuoteFn: func(ctx context.Context, symbol string) (*models.Quote, error) {
			if symbol == "UCG.MI" {
				return &models.Quote{Symbol: symbol, Price: 0}, nil
			}
			return &models.Quote{Symbol: symbol, Name: symbol, Price: 10, Currency: ""}, nil
		},
	}
	svc := newTestService(client)

	quotes := svc.FetchWatchlist(context.Background(), nil)
	if len(quotes) != 5 {
		t.Fatalf("expected 5 quotes (one filtered), got %d", len(quotes))
	}

	requested := client.requestedSymbols()
	for _, symbol := range []string{"ENEL.MI", "ISP.MI", "UCG.MI", "ENI.MI", "RACE.MI", "STLAM.MI"} {
		if !requested[symbol] {
			t.Errorf("default watchlist symbol %s was not requested", symbol)
		}
	}
	for _, q := range quotes {
		if q.Currency != "EUR" {
			t.Errorf("missing currency should default to EUR, got %q", q.Currency)
		}
	}
}

func TestFetchWatchlistCustomSymbols(t *testing.T) {
	client := &fakeQuoteClient{}
	svc := newTestService(client)

	quotes := svc.FetchWatchlist(context.Background(), []string{"AAPL", "MSFT"})
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	if quotes[0].Symbol != "AAPL" || quotes[1].Symbol != "MSFT" {
		t.Errorf("unexpected symbols: %+v", quotes)
	}
	if client.requestedSymbols()["ENEL.MI"] {
		t.Error("default watchlist must not be fetched for custom symbols")
	}
}

func TestFetchAllLiveCaching(t *testing.T) {
	clock := newFakeClock()
	client := &fakeQuoteClient{}
	svc := newTestService(client, WithClock(clock.Now))

	first, cached, err := svc.FetchAllLive(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached {
		t.Error("first fetch must not be cached")
	}
	if !first.LastUpdated.Equal(clock.Now()) {
		t.Errorf("snapshot timestamp should come from the clock, got %v", first.LastUpdated)
	}

	clock.Advance(30 * time.Second)
	second, cached, err := svc.FetchAllLive(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cached {
		t.Error("fetch within the TTL must be served from cache")
	}
	if second != first {
		t.Error("cache must return the stored snapshot")
	}

	clock.Advance(31 * time.Second)
	_, cached, err = svc.FetchAllLive(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached {
		t.Error("fetch past the TTL must refresh")
	}
}

func TestFetchAllLiveCustomWatchlistBypassesCache(t *testing.T) {
	clock := newFakeClock()
	client := &fakeQuoteClient{}
	svc := newTestService(client, WithClock(clock.Now))

	if _, _, err := svc.FetchAllLive(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, cached, err := svc.FetchAllLive(context.Background(), []string{"AAPL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached {
		t.Error("custom watchlist must bypass the cache")
	}

	// The custom fetch must not overwrite the cached default snapshot.
	snapshot, cached, err := svc.FetchAllLive(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cached {
		t.Error("default snapshot should still be cached")
	}
	for _, q := range snapshot.Watchlist {
		if q.Symbol == "AAPL" {
			t.Error("custom watchlist leaked into the cached default snapshot")
		}
	}
}

func TestFetchAllLiveAssemblesAllCategories(t *testing.T) {
	client := &fakeQuoteClient{}
	svc := newTestService(client)

	snapshot, _, err := svc.FetchAllLive(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Indices) != 6 || len(snapshot.Currencies) != 6 ||
		len(snapshot.Commodities) != 5 || len(snapshot.Sectors) != 7 || len(snapshot.Watchlist) != 6 {
		t.Errorf("unexpected snapshot shape: indices=%d currencies=%d commodities=%d sectors=%d watchlist=%d",
			len(snapshot.Indices), len(snapshot.Currencies), len(snapshot.Commodities),
			len(snapshot.Sectors), len(snapshot.Watchlist))
	}
}

func TestFetchHistorical(t *testing.T) {
	var gotInterval string
	var gotStart time.Time
	client := &fakeQuoteClient{
		historyFn: func(ctx context.Context, symbol string, start time.Time, interval string) ([]models.HistoricalBar, error) {
			gotInterval = interval
			gotStart = start
			return []models.HistoricalBar{{Date: "2025-05-01", Close: 10}}, nil
		},
	}
	clock := newFakeClock()
	svc := newTestService(client, WithClock(clock.Now))

	bars := svc.FetchHistorical(context.Background(), "ENEL.MI", models.Period1Month)
	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
	if gotInterval != "1d" {
		t.Errorf("one-month lookback must use daily bars, got %s", gotInterval)
	}
	if !gotStart.Equal(clock.Now().AddDate(0, -1, 0)) {
		t.Errorf("unexpected start date: %v", gotStart)
	}

	svc.FetchHistorical(context.Background(), "ENEL.MI", models.Period1Year)
	if gotInterval != "1wk" {
		t.Errorf("longer lookbacks must use weekly bars, got %s", gotInterval)
	}

	// Unknown periods fall back to the three-month window.
	svc.FetchHistorical(context.Background(), "ENEL.MI", models.HistoricalPeriod("2w"))
	if !gotStart.Equal(clock.Now().AddDate(0, -3, 0)) {
		t.Errorf("invalid period should default to 3mo, start=%v", gotStart)
	}
}

func TestFetchHistoricalFailureYieldsEmptySeries(t *testing.T) {
	client := &fakeQuoteClient{
		historyFn: func(ctx context.Context, symbol string, start time.Time, interval string) ([]models.HistoricalBar, error) {
			return nil, errors.New("source unavailable")
		},
	}
	svc := newTestService(client)

	bars := svc.FetchHistorical(context.Background(), "ENEL.MI", models.Period3Months)
	if bars == nil || len(bars) != 0 {
		t.Errorf("expected empty non-nil series, got %v", bars)
	}
}

func TestSearchSymbolsCapped(t *testing.T) {
	client := &fakeQuoteClient{
		searchFn: func(ctx context.Context, query string) ([]models.SymbolMatch, error) {
			matches := make([]models.SymbolMatch, 15)
			for i := range matches {
				matches[i] = models.SymbolMatch{Symbol: "S", Name: "N"}
			}
			return matches, nil
		},
	}
	svc := newTestService(client)

	matches := svc.SearchSymbols(context.Background(), "energy")
	if len(matches) != 10 {
		t.Errorf("expected results capped at 10, got %d", len(matches))
	}
}

func TestSearchSymbolsFailureYieldsEmpty(t *testing.T) {
	client := &fakeQuoteClient{
		searchFn: func(ctx context.Context, query string) ([]models.SymbolMatch, error) {
			return nil, errors.New("source unavailable")
		},
	}
	svc := newTestService(client)

	matches := svc.SearchSymbols(context.Background(), "energy")
	if matches == nil || len(matches) != 0 {
		t.Errorf("expected empty non-nil result, got %v", matches)
	}
}
