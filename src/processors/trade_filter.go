package processors

import (
	"strings"
	"time"

	"github.com/username/tradewhatif/src/models"
	"github.com/username/tradewhatif/src/utils"
)

type FilterKind string

const (
	FilterAll    FilterKind = "all"
	FilterBuy    FilterKind = "buy"
	FilterSell   FilterKind = "sell"
	FilterProfit FilterKind = "profit"
	FilterLoss   FilterKind = "loss"
)

// TradeFilter narrows a trade list the way the dashboard table does.
// Days <= 0 disables the time window.
type TradeFilter struct {
	Kind   FilterKind
	Search string
	Days   int
	Now    time.Time
}

// FilterBySymbol keeps trades whose symbol equals symbol exactly. An empty symbol keeps everything.
func FilterBySymbol(trades []models.ParsedTrade, symbol string) []models.ParsedTrade {
	if symbol == "" {
		return trades
	}
	return keep(trades, func(t models.ParsedTrade) bool { return t.Symbol == symbol })
}

// FilterByDateRange keeps trades whose expiry date lies within [start, end]. The range is
// ignored unless both ends are set.
func FilterByDateRange(trades []models.ParsedTrade, r *models.DateRange) []models.ParsedTrade {
	if !r.IsSet() {
		return trades
	}
	start, errStart := utils.ParseDate(r.Start)
	end, errEnd := utils.ParseDate(r.End)
	if errStart != nil || errEnd != nil {
		return trades
	}
	return keep(trades, func(t models.ParsedTrade) bool {
		d, err := utils.ParseDate(t.ExpiryDate)
		return err == nil && !d.Before(start) && !d.After(end)
	})
}

// FilterTrades applies kind, search term and time window in that order.
func FilterTrades(trades []models.ParsedTrade, f TradeFilter) []models.ParsedTrade {
	result := trades

	switch f.Kind {
	case FilterBuy:
		result = keep(result, func(t models.ParsedTrade) bool { return t.Type == models.TradeTypeBuy })
	case FilterSell:
		result = keep(result, func(t models.ParsedTrade) bool { return t.Type == models.TradeTypeSell })
	case FilterProfit:
		result = keep(result, func(t models.ParsedTrade) bool { return t.HasProfit() && t.PotentialProfit.IsPositive() })
	case FilterLoss:
		result = keep(result, func(t models.ParsedTrade) bool { return t.HasProfit() && t.PotentialProfit.IsNegative() })
	}

	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		result = keep(result, func(t models.ParsedTrade) bool {
			return strings.Contains(strings.ToLower(t.Symbol), term) ||
				strings.Contains(strings.ToLower(string(t.Type)), term) ||
				(t.AccountNumber != "" && strings.Contains(t.AccountNumber, term))
		})
	}

	if f.Days > 0 {
		now := f.Now
		if now.IsZero() {
			now = time.Now()
		}
		cutoff := now.AddDate(0, 0, -f.Days)
		cutoffDay := time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)
		result = keep(result, func(t models.ParsedTrade) bool {
			d, err := utils.ParseDate(t.ExpiryDate)
			return err == nil && !d.Before(cutoffDay)
		})
	}

	return result
}

// ParseFilterKind maps a query value to a FilterKind, defaulting to FilterAll.
func ParseFilterKind(s string) FilterKind {
	switch k := FilterKind(strings.ToLower(strings.TrimSpace(s))); k {
	case FilterBuy, FilterSell, FilterProfit, FilterLoss:
		return k
	default:
		return FilterAll
	}
}

func keep(trades []models.ParsedTrade, pred func(models.ParsedTrade) bool) []models.ParsedTrade {
	out := make([]models.ParsedTrade, 0, len(trades))
	for _, t := range trades {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}
