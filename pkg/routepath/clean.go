package routepath

import (
	"errors"
	"strings"
)

// Errors returned for paths that cannot be cleaned.
var (
	ErrNotRooted = errors.New("routepath: target is not a rooted path")
	ErrBackslash = errors.New("routepath: backslash in path")
	ErrNUL       = errors.New("routepath: NUL byte in path")
	ErrBadEscape = errors.New("routepath: malformed percent escape")
	ErrAboveRoot = errors.New("routepath: dot segment climbs above root")
)

// Clean normalizes an escaped pathname the way a browser resolves it:
// empty segments collapse, "." and ".." (also in their %2e spellings) are
// applied, and a trailing slash is kept because search pages end in one.
// Percent escapes are left as they are. changed reports whether the
// result differs from pathname.
func Clean(pathname string) (cleaned string, changed bool, err error) {
	if err := checkBytes(pathname); err != nil {
		return "", false, err
	}
	if pathname == "" {
		return "/", true, nil
	}

	parts := strings.Split(strings.TrimPrefix(pathname, "/"), "/")
	stack := make([]string, 0, len(parts))
	for _, seg := range parts {
		switch dots(seg) {
		case 1:
		case 2:
			if len(stack) == 0 {
				return "", false, ErrAboveRoot
			}
			stack = stack[:len(stack)-1]
		default:
			if seg != "" {
				stack = append(stack, seg)
			}
		}
	}

	cleaned = "/" + strings.Join(stack, "/")
	if len(stack) > 0 {
		last := parts[len(parts)-1]
		if last == "" || dots(last) > 0 {
			cleaned += "/"
		}
	}
	return cleaned, cleaned != pathname, nil
}

// CleanTarget cleans a navigation target sent by a client. The target
// must be a rooted path, optionally followed by a query; scheme-qualified
// and protocol-relative URLs are rejected so a client cannot point a
// session at another host.
func CleanTarget(target string) (string, error) {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "", ErrNotRooted
	}
	pathname, query, hasQuery := strings.Cut(target, "?")
	cleaned, _, err := Clean(pathname)
	if err != nil {
		return "", err
	}
	if hasQuery {
		return cleaned + "?" + query, nil
	}
	return cleaned, nil
}

// checkBytes rejects backslashes, NUL bytes (raw or escaped) and
// truncated or non-hex escapes.
func checkBytes(p string) error {
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case '\\':
			return ErrBackslash
		case 0:
			return ErrNUL
		case '%':
			if i+2 >= len(p) || !isHex(p[i+1]) || !isHex(p[i+2]) {
				return ErrBadEscape
			}
			if p[i+1] == '0' && p[i+2] == '0' {
				return ErrNUL
			}
			i += 2
		}
	}
	return nil
}

// dots returns 1 for a "." segment, 2 for "..", and 0 otherwise.
func dots(seg string) int {
	switch strings.ToLower(seg) {
	case ".", "%2e":
		return 1
	case "..", ".%2e", "%2e.", "%2e%2e":
		return 2
	}
	return 0
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
