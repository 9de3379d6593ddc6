package models

import "time"

// Quote is a point-in-time reading for one tradable symbol. Optional
// fields are only populated when the source reports them.
type Quote struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	Change           float64 `json:"change"`
	ChangePercent    float64 `json:"change_percent"`
	Currency         string  `json:"currency,omitempty"`
	MarketCap        float64 `json:"market_cap,omitempty"`
	Volume           int64   `json:"volume,omitempty"`
	DayHigh          float64 `json:"day_high,omitempty"`
	DayLow           float64 `json:"day_low,omitempty"`
	FiftyTwoWeekHigh float64 `json:"fifty_two_week_high,omitempty"`
	FiftyTwoWeekLow  float64 `json:"fifty_two_week_low,omitempty"`
	Exchange         string  `json:"exchange,omitempty"`
}

// IndexQuote is a market index reading.
type IndexQuote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// CurrencyRate is an FX or crypto pair reading.
type CurrencyRate struct {
	Pair          string  `json:"pair"`
	Rate          float64 `json:"rate"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// CommodityPrice is a commodity future reading.
type CommodityPrice struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Currency      string  `json:"currency"`
}

// SectorPerformance is a sector-proxy ETF daily performance entry.
type SectorPerformance struct {
	Sector      string  `json:"sector"`
	Performance float64 `json:"performance"`
	Proxy       string  `json:"proxy"`
}

// HistoricalBar is one OHLCV point in a historical series.
type HistoricalBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// SymbolMatch is one result from a free-text symbol search.
type SymbolMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

// MarketSnapshot is the aggregate of all live market-data categories
// produced by one aggregation cycle. A failed category contributes an
// empty list; the snapshot itself always succeeds structurally.
type MarketSnapshot struct {
	Indices     []IndexQuote        `json:"indices"`
	Currencies  []CurrencyRate      `json:"currencies"`
	Commodities []CommodityPrice    `json:"commodities"`
	Sectors     []SectorPerformance `json:"sectors"`
	Watchlist   []Quote             `json:"watchlist"`
	LastUpdated time.Time           `json:"last_updated"`
}

// HistoricalPeriod is the bounded lookback enumeration for historical fetches.
type HistoricalPeriod string

const (
	Period1Month  HistoricalPeriod = "1mo"
	Period3Months HistoricalPeriod = "3mo"
	Period6Months HistoricalPeriod = "6mo"
	Period1Year   HistoricalPeriod = "1y"
)

// Valid reports whether the period is one of the supported lookbacks.
func (p HistoricalPeriod) Valid() bool {
	switch p {
	case Period1Month, Period3Months, Period6Months, Period1Year:
		return true
	}
	return false
}

// StartDate returns the beginning of the lookback window ending at now.
func (p HistoricalPeriod) StartDate(now time.Time) time.Time {
	switch p {
	case Period1Month:
		return now.AddDate(0, -1, 0)
	case Period3Months:
		return now.AddDate(0, -3, 0)
	case Period6Months:
		return now.AddDate(0, -6, 0)
	case Period1Year:
		return now.AddDate(-1, 0, 0)
	}
	return now.AddDate(0, -3, 0)
}

// Interval returns the bar interval used for the period: daily bars for
// the one-month window, weekly bars otherwise.
func (p HistoricalPeriod) Interval() string {
	if p == Period1Month {
		return "1d"
	}
	return "1wk"
}
