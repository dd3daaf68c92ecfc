package parsers

import (
	"fmt"
	"time"

	"github.com/username/tradewhatif/src/logger"
	"github.com/username/tradewhatif/src/models"
	"github.com/username/tradewhatif/src/utils"
)

// Extractor turns broker notification emails into expired-order trades.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	parsers []BrokerParser
	now     func() time.Time
}

type Option func(*Extractor)

// WithParsers replaces the broker formats the extractor tries.
func WithParsers(p ...BrokerParser) Option {
	return func(e *Extractor) { e.parsers = p }
}

// WithClock sets the source of the extraction instant.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		parsers: DefaultParsers(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultExtractor = NewExtractor()

// ExtractTrades runs the default extractor over email.
func ExtractTrades(email models.Email) []models.ParsedTrade {
	return defaultExtractor.ExtractTrades(email)
}

// ExtractTrades returns the trades found in email. Irrelevant or malformed emails yield an
// empty slice; a failure while parsing one email never escapes this call.
func (e *Extractor) ExtractTrades(email models.Email) (trades []models.ParsedTrade) {
	broker := "unknown"
	defer func() {
		if r := recover(); r != nil {
			logger.L.Error("Recovered from panic while parsing email", "broker", broker, "emailID", email.ID, "panic", fmt.Sprint(r))
			trades = []models.ParsedTrade{}
		}
	}()

	parser := e.parserFor(email)
	if parser == nil {
		return []models.ParsedTrade{}
	}
	broker = parser.Broker()

	text := utils.HTMLToText(utils.UnwrapHTML(email.Content))
	parsed, err := parser.Parse(text, email, e.now())
	if err != nil {
		logger.L.Error("Error parsing email", "broker", broker, "emailID", email.ID, "error", err)
		return []models.ParsedTrade{}
	}
	if parsed == nil {
		parsed = []models.ParsedTrade{}
	}
	logger.L.Debug("Parsed email", "broker", broker, "emailID", email.ID, "trades", len(parsed))
	return parsed
}

func (e *Extractor) parserFor(email models.Email) BrokerParser {
	for _, p := range e.parsers {
		if p.IsRelevant(email) {
			return p
		}
	}
	return nil
}
