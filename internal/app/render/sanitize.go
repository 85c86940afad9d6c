package render

import "regexp"

// fontTagRe matches opening and closing font tags with any attributes.
var fontTagRe = regexp.MustCompile(`(?i)</?font\b[^>]*>`)

// SanitizeWarning removes font tags, which the chat markup dialect rejects.
// All other text, including supported tags, is passed through.
func SanitizeWarning(s string) string {
	if s == "" {
		return s
	}
	return fontTagRe.ReplaceAllString(s, "")
}
