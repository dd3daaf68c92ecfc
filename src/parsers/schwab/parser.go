package schwab

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/username/tradewhatif/src/logger"
	"github.com/username/tradewhatif/src/models"
	"github.com/username/tradewhatif/src/security/validation"
	"github.com/username/tradewhatif/src/utils"
)

const (
	BrokerName = "Charles Schwab"

	// relevanceMarker appears in the subject or body of every expired-order summary.
	relevanceMarker = "summary of your expired"
)

var (
	accountRe = regexp.MustCompile(`(?i)account ending in (\d+)`)
	dateRe    = regexp.MustCompile(`(?i)[A-Z][a-z]{2} \d{1,2}, \d{4}`)
	headerRe  = regexp.MustCompile(`(?i)Action\s+Quantity\s+Symbol/Description\s+Price`)
	// Rows look like "BUY 47 OMEX $1.26" once the body has been flattened to single spaces.
	rowRe = regexp.MustCompile(`(BUY|SELL)\s+(\d+)\s+([A-Z]+)\s+\$(\d+\.\d+)`)
)

type SchwabParser struct{}

func NewParser() *SchwabParser {
	return &SchwabParser{}
}

func (p *SchwabParser) Broker() string {
	return BrokerName
}

func (p *SchwabParser) IsRelevant(email models.Email) bool {
	return strings.Contains(email.Subject, relevanceMarker) || strings.Contains(email.Content, relevanceMarker)
}

func (p *SchwabParser) Parse(text string, email models.Email, extractedAt time.Time) ([]models.ParsedTrade, error) {
	trades := []models.ParsedTrade{}

	var accountNumber string
	if m := accountRe.FindStringSubmatch(text); m != nil {
		accountNumber = m[1]
	}

	rawDate := dateRe.FindString(text)
	if rawDate == "" {
		rawDate = email.Date
	}
	expiryDate, fellBack := utils.NormalizeDate(rawDate, extractedAt)
	if fellBack {
		// The processing date stands in for the expiry date; the trade may be mis-dated.
		logger.L.Warn("Could not parse expiry date, using processing date", "emailID", email.ID, "rawDate", rawDate, "expiryDate", expiryDate)
	}

	if !headerRe.MatchString(text) {
		logger.L.Debug("No expired order table found in email", "emailID", email.ID)
		return trades, nil
	}

	for _, m := range rowRe.FindAllStringSubmatch(text, -1) {
		trade, err := buildTrade(m, expiryDate, accountNumber, email.Content)
		if err != nil {
			logger.L.Warn("Skipping expired order row", "emailID", email.ID, "row", m[0], "error", err)
			continue
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

func buildTrade(m []string, expiryDate, accountNumber, rawContent string) (models.ParsedTrade, error) {
	tradeType, quantityStr, symbol, priceStr := m[1], m[2], m[3], m[4]

	quantity, err := strconv.Atoi(quantityStr)
	if err != nil {
		return models.ParsedTrade{}, fmt.Errorf("invalid quantity %q: %w", quantityStr, err)
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return models.ParsedTrade{}, fmt.Errorf("invalid price %q: %w", priceStr, err)
	}

	trade := models.ParsedTrade{
		ID:            tradeID(symbol, expiryDate),
		Symbol:        symbol,
		Type:          models.TradeType(tradeType),
		Price:         price,
		Quantity:      quantity,
		ExpiryDate:    expiryDate,
		Status:        models.StatusExpired,
		AccountNumber: accountNumber,
		Broker:        BrokerName,
		OriginalEmail: rawContent,
	}
	if err := validation.ValidateTrade(trade); err != nil {
		return models.ParsedTrade{}, err
	}
	return trade, nil
}

// tradeID combines symbol and expiry date with a time-ordered UUID taken at extraction,
// so rows of the same symbol extracted in the same millisecond stay distinct.
func tradeID(symbol, expiryDate string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return fmt.Sprintf("%s-%s-%s", symbol, expiryDate, id.String())
}
