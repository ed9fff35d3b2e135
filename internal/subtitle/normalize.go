package subtitle

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// stripTags removes every element and attribute; only text survives.
var stripTags = bluemonday.StrictPolicy()

// CleanText turns a raw caption payload into plain text: markup is
// stripped, named and numeric entities are decoded, and whitespace runs
// (including newlines and non-breaking spaces) collapse to single spaces.
func CleanText(raw string) string {
	if raw == "" {
		return ""
	}
	text := stripTags.Sanitize(raw)
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}
