package urlparam

import (
	"net/url"
	"strings"
)

// componentSafe are the characters EscapeComponent leaves alone on top of
// the RFC 3986 unreserved set.
var componentSafe = strings.NewReplacer(
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// QueryEscape percent-encodes s for a query string. Everything except
// the RFC 3986 unreserved characters is escaped, spaces as %20.
func QueryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// QueryUnescape decodes a query string component, reading "+" as a space.
// Malformed input is returned unchanged.
func QueryUnescape(s string) string {
	out, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return out
}

// EscapeComponent percent-encodes s the way browsers encode a URI
// component: like QueryEscape but ! ' ( ) * stay literal.
func EscapeComponent(s string) string {
	return componentSafe.Replace(QueryEscape(s))
}

// UnescapeComponent reverses EscapeComponent. A literal "+" stays a "+".
// Malformed input is returned unchanged.
func UnescapeComponent(s string) string {
	out, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return out
}
