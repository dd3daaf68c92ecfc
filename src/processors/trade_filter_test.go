package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/username/tradewhatif/src/models"
)

func sampleTrades() []models.ParsedTrade {
	omex := withProfit(trade("omex", "OMEX", models.TradeTypeBuy, "1.26", 47, "2025-04-25"), "34.78")
	omex.AccountNumber = "984"
	return []models.ParsedTrade{
		omex,
		withProfit(trade("aapl", "AAPL", models.TradeTypeSell, "175.50", 100, "2025-04-20"), "-120"),
		withProfit(trade("msft", "MSFT", models.TradeTypeBuy, "420.75", 25, "2025-04-20"), "0"),
		trade("tsla", "TSLA", models.TradeTypeBuy, "250.30", 200, "2025-04-15"),
	}
}

func ids(trades []models.ParsedTrade) []string {
	out := make([]string, 0, len(trades))
	for _, t := range trades {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterBySymbol(t *testing.T) {
	assert.Equal(t, []string{"aapl"}, ids(FilterBySymbol(sampleTrades(), "AAPL")))
	assert.Empty(t, FilterBySymbol(sampleTrades(), "aapl"))
	assert.Len(t, FilterBySymbol(sampleTrades(), ""), 4)
}

func TestFilterByDateRange(t *testing.T) {
	r := &models.DateRange{Start: "2025-04-16", End: "2025-04-20"}
	assert.Equal(t, []string{"aapl", "msft"}, ids(FilterByDateRange(sampleTrades(), r)))

	inclusive := &models.DateRange{Start: "2025-04-15", End: "2025-04-25"}
	assert.Len(t, FilterByDateRange(sampleTrades(), inclusive), 4)

	assert.Len(t, FilterByDateRange(sampleTrades(), &models.DateRange{Start: "2025-04-16"}), 4)
	assert.Len(t, FilterByDateRange(sampleTrades(), nil), 4)
}

func TestFilterTradesKinds(t *testing.T) {
	cases := map[FilterKind][]string{
		FilterAll:    {"omex", "aapl", "msft", "tsla"},
		FilterBuy:    {"omex", "msft", "tsla"},
		FilterSell:   {"aapl"},
		FilterProfit: {"omex"},
		FilterLoss:   {"aapl"},
	}
	for kind, want := range cases {
		assert.Equal(t, want, ids(FilterTrades(sampleTrades(), TradeFilter{Kind: kind})), kind)
	}
}

func TestFilterTradesSearch(t *testing.T) {
	assert.Equal(t, []string{"omex"}, ids(FilterTrades(sampleTrades(), TradeFilter{Search: "om"})))
	assert.Equal(t, []string{"aapl"}, ids(FilterTrades(sampleTrades(), TradeFilter{Search: "sell"})))
	assert.Equal(t, []string{"omex"}, ids(FilterTrades(sampleTrades(), TradeFilter{Search: "98"})))
}

func TestFilterTradesDays(t *testing.T) {
	now := time.Date(2025, 4, 27, 15, 0, 0, 0, time.UTC)
	got := FilterTrades(sampleTrades(), TradeFilter{Days: 7, Now: now})
	assert.Equal(t, []string{"omex", "aapl", "msft"}, ids(got))

	got = FilterTrades(sampleTrades(), TradeFilter{Kind: FilterBuy, Days: 7, Now: now})
	assert.Equal(t, []string{"omex", "msft"}, ids(got))
}

func TestParseFilterKind(t *testing.T) {
	assert.Equal(t, FilterProfit, ParseFilterKind(" Profit "))
	assert.Equal(t, FilterAll, ParseFilterKind(""))
	assert.Equal(t, FilterAll, ParseFilterKind("everything"))
}
