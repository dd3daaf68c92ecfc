package processors

import (
	"github.com/shopspring/decimal"

	"github.com/username/tradewhatif/src/models"
)

// Summarize aggregates counts and profit totals over trades. Trades without a potential
// profit count towards the totals by type only.
func Summarize(trades []models.ParsedTrade) models.Insights {
	ins := models.Insights{
		TotalTrades:          len(trades),
		TotalPotentialProfit: decimal.Zero,
		MissedProfit:         decimal.Zero,
	}

	var best, worst *models.ParsedTrade
	for i := range trades {
		t := &trades[i]
		switch t.Type {
		case models.TradeTypeBuy:
			ins.BuyTrades++
		case models.TradeTypeSell:
			ins.SellTrades++
		}
		if !t.HasProfit() {
			continue
		}

		p := *t.PotentialProfit
		ins.TotalPotentialProfit = ins.TotalPotentialProfit.Add(p)
		switch {
		case p.IsPositive():
			ins.ProfitableTrades++
			ins.MissedProfit = ins.MissedProfit.Add(p)
		case p.IsNegative():
			ins.LosingTrades++
		}

		if best == nil || p.GreaterThan(*best.PotentialProfit) {
			best = t
		}
		if worst == nil || p.LessThan(*worst.PotentialProfit) {
			worst = t
		}
	}

	if best != nil {
		ins.BestTradeID = best.ID
		ins.WorstTradeID = worst.ID
	}
	return ins
}
