package routepath

import (
	"regexp"
	"strings"
)

// DefaultAnchor is the path segment that marks a search page.
const DefaultAnchor = "search"

// Anchor locates the search page inside a URL path: the base path ends at
// the first "/<name>", and whatever follows "<name>/" at the end of the
// path is the category segment.
type Anchor struct {
	name    string
	marker  string
	segment *regexp.Regexp
}

// NewAnchor returns an anchor for the given segment name. An empty name
// means DefaultAnchor.
func NewAnchor(name string) *Anchor {
	name = strings.Trim(name, "/")
	if name == "" {
		name = DefaultAnchor
	}
	return &Anchor{
		name:    name,
		marker:  "/" + name,
		segment: regexp.MustCompile(regexp.QuoteMeta(name) + `/(.*?)/?$`),
	}
}

// Name returns the anchor segment name.
func (a *Anchor) Name() string {
	return a.name
}

// Base returns pathname up to and including the first "/<name>".
// ok is false when pathname has no such marker.
func (a *Anchor) Base(pathname string) (prefix string, ok bool) {
	i := strings.Index(pathname, a.marker)
	if i < 0 {
		return "", false
	}
	return pathname[:i+len(a.marker)], true
}

// Segment returns the still-encoded text between "<name>/" and the end of
// pathname, without a trailing slash. It is "" when there is none.
func (a *Anchor) Segment(pathname string) string {
	m := a.segment.FindStringSubmatch(pathname)
	if m == nil {
		return ""
	}
	return m[1]
}

// Matches reports whether pathname is the search page or below it.
func (a *Anchor) Matches(pathname string) bool {
	return pathname == a.marker || strings.HasPrefix(pathname, a.marker+"/")
}
