package parsers

import (
	"time"

	"github.com/username/tradewhatif/src/models"
)

// BrokerParser understands one broker's notification format.
type BrokerParser interface {
	// Broker is the label stamped on every trade the parser produces.
	Broker() string
	// IsRelevant reports whether email is a notification this parser handles.
	IsRelevant(email models.Email) bool
	// Parse extracts trades from the normalized plain text of email.
	// extractedAt is the instant used for date fallback and trade IDs.
	Parse(text string, email models.Email, extractedAt time.Time) ([]models.ParsedTrade, error)
}
