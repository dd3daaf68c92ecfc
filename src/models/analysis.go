package models

import "github.com/shopspring/decimal"

// AnalyzeRequest is the body of POST /api/parse-emails.
type AnalyzeRequest struct {
	Emails       []Email    `json:"emails"`
	FilterSymbol string     `json:"filterSymbol,omitempty" validate:"omitempty,alpha"`
	DateRange    *DateRange `json:"dateRange,omitempty"`
	// Mailbox keys the cached result so it can be listed or exported later.
	Mailbox string `json:"mailbox,omitempty"`
}

// TradesResponse wraps trade lists returned by the API.
type TradesResponse struct {
	Trades []ParsedTrade `json:"trades"`
}

// EmailsResponse wraps the mailbox contents returned by the API.
type EmailsResponse struct {
	Emails []Email `json:"emails"`
}

// WhatIfRequest is the body of POST /api/what-if. Without CustomPrice the price implied by the
// trade's potential profit is used.
type WhatIfRequest struct {
	Trade       ParsedTrade      `json:"trade"`
	CustomPrice *decimal.Decimal `json:"customPrice,omitempty"`
}

// WhatIfScenario compares executing the expired order as a buy or as a sell at CurrentPrice.
type WhatIfScenario struct {
	ID             string          `json:"id"`
	Symbol         string          `json:"symbol"`
	OriginalType   TradeType       `json:"originalType"`
	OriginalPrice  decimal.Decimal `json:"originalPrice"`
	Quantity       int             `json:"quantity"`
	ExpiryDate     string          `json:"expiryDate"`
	CurrentPrice   decimal.Decimal `json:"currentPrice"`
	BuyScenario    decimal.Decimal `json:"buyScenario"`
	SellScenario   decimal.Decimal `json:"sellScenario"`
	Recommendation TradeType       `json:"recommendation"`
}

// Insights aggregates a set of analysed trades.
type Insights struct {
	TotalTrades          int             `json:"totalTrades"`
	BuyTrades            int             `json:"buyTrades"`
	SellTrades           int             `json:"sellTrades"`
	ProfitableTrades     int             `json:"profitableTrades"`
	LosingTrades         int             `json:"losingTrades"`
	TotalPotentialProfit decimal.Decimal `json:"totalPotentialProfit"`
	MissedProfit         decimal.Decimal `json:"missedProfit"`
	BestTradeID          string          `json:"bestTradeId,omitempty"`
	WorstTradeID         string          `json:"worstTradeId,omitempty"`
}

// InsightsRequest is the body of POST /api/insights.
type InsightsRequest struct {
	Trades []ParsedTrade `json:"trades"`
}
