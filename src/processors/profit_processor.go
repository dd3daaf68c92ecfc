package processors

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/username/tradewhatif/src/models"
)

var ErrInvalidPrice = errors.New("invalid price")

// WithPotentialProfit returns a copy of trade with PotentialProfit set to the gain or loss
// the expired order would show at currentPrice:
//
//	BUY:  (currentPrice - price) * quantity
//	SELL: (price - currentPrice) * quantity
func WithPotentialProfit(trade models.ParsedTrade, currentPrice decimal.Decimal) models.ParsedTrade {
	profit := ProfitAt(trade.Type, trade.Price, trade.Quantity, currentPrice)
	trade.PotentialProfit = &profit
	return trade
}

// ProfitAt computes the signed profit of an order of the given direction executed at price
// and valued at currentPrice.
func ProfitAt(tradeType models.TradeType, price decimal.Decimal, quantity int, currentPrice decimal.Decimal) decimal.Decimal {
	qty := decimal.NewFromInt(int64(quantity))
	if tradeType == models.TradeTypeBuy {
		return currentPrice.Sub(price).Mul(qty)
	}
	return price.Sub(currentPrice).Mul(qty)
}

// PriceFromFloat converts a market price into a decimal, rejecting NaN and infinities.
func PriceFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, fmt.Errorf("%w: %v is not a finite number", ErrInvalidPrice, f)
	}
	return decimal.NewFromFloat(f), nil
}
