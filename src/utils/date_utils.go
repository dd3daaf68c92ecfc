package utils

import (
	"fmt"
	"strings"
	"time"
)

const ISODateFormat = "2006-01-02"

// inputDateLayouts are tried in order by ParseDate. Month names match case-insensitively.
var inputDateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	ISODateFormat,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006",
	"2006/01/02",
	"1/2/2006",
}

// ParseDate parses a free-text calendar date using the supported layouts.
func ParseDate(dateStr string) (time.Time, error) {
	s := strings.TrimSpace(dateStr)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range inputDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date format: %q", dateStr)
}

// NormalizeDate formats dateStr as YYYY-MM-DD. When it cannot be parsed the date of now is
// returned instead and fellBack is true.
func NormalizeDate(dateStr string, now time.Time) (iso string, fellBack bool) {
	t, err := ParseDate(dateStr)
	if err != nil {
		return now.Format(ISODateFormat), true
	}
	return t.Format(ISODateFormat), false
}
