package validation

import (
	"strings"
	"unicode"
)

// SanitizeForFormulaInjection prepends a single quote if the string starts with a formula character.
// This makes most spreadsheet software treat it as text.
func SanitizeForFormulaInjection(s string) string {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) > 0 {
		switch trimmed[0] {
		case '=', '+', '@', '\t', '\r':
			return "'" + s
		case '-':
			// Negative amounts are legitimate cell values.
			if !isNumber(trimmed) {
				return "'" + s
			}
		}
	}
	return s
}

// SanitizeCSVCell prepares a free-text value for a spreadsheet cell: control characters are
// dropped, line breaks and tabs become spaces, and formula prefixes are neutralised.
func SanitizeCSVCell(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case unicode.IsPrint(r):
			return r
		default:
			return -1
		}
	}, s)
	return SanitizeForFormulaInjection(cleaned)
}

func isNumber(s string) bool {
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
		case r == '-' && i == 0:
		default:
			return false
		}
	}
	return digits > 0
}
