// Package marketdata aggregates live market data from Yahoo Finance.
package marketdata

// The fixed symbol universes the dashboard tracks. Watchlist symbols can
// be overridden per request; the rest are constant.

type namedSymbol struct {
	symbol string
	name   string
}

var indexSymbols = []namedSymbol{
	{symbol: "^FTSEMIB", name: "FTSE MIB"},
	{symbol: "^STOXX50E", name: "Euro Stoxx 50"},
	{symbol: "^GSPC", name: "S&P 500"},
	{symbol: "^DJI", name: "Dow Jones"},
	{symbol: "^IXIC", name: "NASDAQ"},
	{symbol: "^N225", name: "Nikkei 225"},
}

var currencyPairs = []string{
	"EURUSD=X",
	"EURGBP=X",
	"EURJPY=X",
	"EURCHF=X",
	"BTCEUR=X",
	"ETHEUR=X",
}

var currencyNames = map[string]string{
	"EURUSD=X": "EUR/USD",
	"EURGBP=X": "EUR/GBP",
	"EURJPY=X": "EUR/JPY",
	"EURCHF=X": "EUR/CHF",
	"BTCEUR=X": "BTC/EUR",
	"ETHEUR=X": "ETH/EUR",
}

var commoditySymbols = []namedSymbol{
	{symbol: "GC=F", name: "Gold"},
	{symbol: "SI=F", name: "Silver"},
	{symbol: "CL=F", name: "WTI Crude Oil"},
	{symbol: "BZ=F", name: "Brent Crude Oil"},
	{symbol: "NG=F", name: "Natural Gas"},
}

type sectorProxy struct {
	symbol string
	sector string
}

var sectorProxies = []sectorProxy{
	{symbol: "XLK", sector: "Technology"},
	{symbol: "XLF", sector: "Financials"},
	{symbol: "XLV", sector: "Healthcare"},
	{symbol: "XLE", sector: "Energy"},
	{symbol: "XLY", sector: "Consumer Discretionary"},
	{symbol: "XLP", sector: "Consumer Staples"},
	{symbol: "XLI", sector: "Industrials"},
}

// defaultWatchlist covers the Italian and European names shown when the
// user has not configured their own list.
var defaultWatchlist = []string{
	"ENEL.MI",
	"ISP.MI",
	"UCG.MI",
	"ENI.MI",
	"RACE.MI",
	"STLAM.MI",
}
