package models

import "github.com/shopspring/decimal"

type TradeType string

const (
	TradeTypeBuy  TradeType = "BUY"
	TradeTypeSell TradeType = "SELL"
)

// StatusExpired is the only status produced by the extraction pipeline.
const StatusExpired = "Expired"

// ParsedTrade is one row of a broker's expired-order table.
// Values are immutable once extracted; the profit simulator returns copies.
type ParsedTrade struct {
	ID              string           `json:"id" validate:"required"`
	Symbol          string           `json:"symbol" validate:"required,alpha,uppercase"`
	Type            TradeType        `json:"type" validate:"oneof=BUY SELL"`
	Price           decimal.Decimal  `json:"price" validate:"gt=0"`
	Quantity        int              `json:"quantity" validate:"gt=0"`
	ExpiryDate      string           `json:"expiryDate" validate:"datetime=2006-01-02"`
	Status          string           `json:"status" validate:"eq=Expired"`
	AccountNumber   string           `json:"accountNumber,omitempty" validate:"omitempty,numeric"`
	Broker          string           `json:"broker,omitempty"`
	PotentialProfit *decimal.Decimal `json:"potentialProfit,omitempty"`
	OriginalEmail   string           `json:"originalEmail,omitempty"`
}

// HasProfit reports whether the profit simulator has run on this trade.
func (t ParsedTrade) HasProfit() bool {
	return t.PotentialProfit != nil
}

// Profit returns the potential profit, or zero when it was never computed.
func (t ParsedTrade) Profit() decimal.Decimal {
	if t.PotentialProfit == nil {
		return decimal.Zero
	}
	return *t.PotentialProfit
}
