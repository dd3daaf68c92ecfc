package processors

import (
	"github.com/shopspring/decimal"

	"github.com/username/tradewhatif/src/models"
)

// defaultMarketDrift is assumed when a trade carries no potential profit to back out a price from.
var defaultMarketDrift = decimal.RequireFromString("1.05")

// ImpliedCurrentPrice recovers the market price that produced trade.PotentialProfit.
func ImpliedCurrentPrice(trade models.ParsedTrade) decimal.Decimal {
	if trade.PotentialProfit == nil || trade.Quantity == 0 {
		return trade.Price.Mul(defaultMarketDrift)
	}
	perShare := trade.PotentialProfit.Div(decimal.NewFromInt(int64(trade.Quantity)))
	if trade.Type == models.TradeTypeBuy {
		return trade.Price.Add(perShare)
	}
	return trade.Price.Sub(perShare)
}

// BuildScenario values the trade both as a buy and as a sell at currentPrice.
func BuildScenario(trade models.ParsedTrade, currentPrice decimal.Decimal) models.WhatIfScenario {
	buy := ProfitAt(models.TradeTypeBuy, trade.Price, trade.Quantity, currentPrice)
	sell := ProfitAt(models.TradeTypeSell, trade.Price, trade.Quantity, currentPrice)

	recommendation := models.TradeTypeSell
	if buy.GreaterThan(sell) {
		recommendation = models.TradeTypeBuy
	}

	return models.WhatIfScenario{
		ID:             trade.ID,
		Symbol:         trade.Symbol,
		OriginalType:   trade.Type,
		OriginalPrice:  trade.Price,
		Quantity:       trade.Quantity,
		ExpiryDate:     trade.ExpiryDate,
		CurrentPrice:   currentPrice,
		BuyScenario:    buy,
		SellScenario:   sell,
		Recommendation: recommendation,
	}
}
