package parsers

import (
	"fmt"
	"strings"

	"github.com/username/tradewhatif/src/parsers/schwab"
)

func GetParser(source string) (BrokerParser, error) {
	switch strings.ToLower(source) {
	case "schwab", "charles schwab":
		return schwab.NewParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for source: %s", source)
	}
}

// DefaultParsers returns every supported broker format, most specific first.
func DefaultParsers() []BrokerParser {
	return []BrokerParser{schwab.NewParser()}
}
