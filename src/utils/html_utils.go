package utils

import (
	"regexp"
	"strings"
)

var (
	htmlBlockRe = regexp.MustCompile(`(?is)<html[^>]*>.*?</html>`)
	tagRe       = regexp.MustCompile(`<[^>]*>`)
	// \s in RE2 is ASCII only; mail bodies also carry vertical tabs, NBSPs and other Unicode spaces.
	whitespaceRe = regexp.MustCompile(`[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)
)

// entityReplacements are applied one after another, in this order.
var entityReplacements = [][2]string{
	{"&nbsp;", " "},
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
	{"&#39;", "'"},
}

// UnwrapHTML returns the first <html>...</html> block of content, tags included,
// or content unchanged when there is none.
func UnwrapHTML(content string) string {
	if block := htmlBlockRe.FindString(content); block != "" {
		return block
	}
	return content
}

// HTMLToText flattens markup into single-spaced plain text: tags become a space,
// whitespace runs collapse, the common entities are decoded and the result is trimmed.
func HTMLToText(htmlContent string) string {
	text := tagRe.ReplaceAllString(htmlContent, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	for _, r := range entityReplacements {
		text = strings.ReplaceAll(text, r[0], r[1])
	}
	return strings.TrimSpace(text)
}
