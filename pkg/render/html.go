package render

import "strings"

// htmlTextEscape escapes the characters that would otherwise be
// interpreted as markup when s is placed inside HTML element content.
func htmlTextEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)

	return replacer.Replace(s)
}

// htmlAttrEscape escapes s for placement inside a double-quoted HTML
// attribute value.
func htmlAttrEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)

	return replacer.Replace(s)
}
