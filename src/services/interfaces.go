package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/username/tradewhatif/src/models"
)

const (
	PriceStatusOK          = "OK"
	PriceStatusUnavailable = "UNAVAILABLE"
)

// PriceInfo is the result of a price lookup for one symbol.
type PriceInfo struct {
	Status   string          `json:"status"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
}

// PriceService supplies current market prices. Symbols that cannot be priced are reported with
// PriceStatusUnavailable rather than failing the whole lookup.
type PriceService interface {
	GetCurrentPrices(ctx context.Context, symbols []string) (map[string]PriceInfo, error)
}

// MailboxService fetches broker notification emails from a connected mailbox.
type MailboxService interface {
	FetchEmails(ctx context.Context, req models.FetchEmailsRequest) ([]models.Email, error)
}

// TradeService turns emails into analysed trades and remembers the latest result per mailbox.
type TradeService interface {
	AnalyzeEmails(ctx context.Context, req models.AnalyzeRequest) ([]models.ParsedTrade, error)
	LatestTrades(mailbox string) ([]models.ParsedTrade, error)
}
