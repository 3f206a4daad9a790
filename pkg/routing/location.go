package routing

import (
	"errors"
	"net/url"
	"strings"
)

var errNotAbsolute = errors.New("href is not an absolute URL")

// Location is the part of a browser location the router reads.
// Pathname, Search and Hash are kept percent-encoded; Search and Hash
// include their leading "?" and "#" when non-empty.
type Location struct {
	Protocol string `json:"protocol"`
	Hostname string `json:"hostname"`
	Port     string `json:"port,omitempty"`
	Pathname string `json:"pathname"`
	Search   string `json:"search,omitempty"`
	Hash     string `json:"hash,omitempty"`
	Href     string `json:"href"`
}

// LocationFromURL converts an absolute URL.
func LocationFromURL(u *url.URL) Location {
	loc := Location{
		Hostname: u.Hostname(),
		Port:     u.Port(),
		Pathname: u.EscapedPath(),
		Href:     u.String(),
	}
	if u.Scheme != "" {
		loc.Protocol = u.Scheme + ":"
	}
	if loc.Pathname == "" {
		loc.Pathname = "/"
	}
	if u.RawQuery != "" {
		loc.Search = "?" + u.RawQuery
	}
	if u.Fragment != "" {
		loc.Hash = "#" + u.EscapedFragment()
	}
	return loc
}

// ParseLocation parses an absolute href.
func ParseLocation(href string) (Location, error) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return Location{}, err
	}
	if !u.IsAbs() || u.Host == "" {
		return Location{}, &url.Error{Op: "parse", URL: href, Err: errNotAbsolute}
	}
	return LocationFromURL(u), nil
}

// Resolve returns the location of ref relative to loc.
func (loc Location) Resolve(ref string) (Location, error) {
	base, err := url.Parse(loc.Href)
	if err != nil {
		return Location{}, err
	}
	u, err := base.Parse(ref)
	if err != nil {
		return Location{}, err
	}
	return LocationFromURL(u), nil
}

// Origin returns protocol, host and port, e.g. "https://shop.example:8443".
func (loc Location) Origin() string {
	host := loc.Hostname
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if loc.Port != "" {
		host += ":" + loc.Port
	}
	return loc.Protocol + "//" + host
}

// PathAndQuery returns Pathname followed by Search.
func (loc Location) PathAndQuery() string {
	return loc.Pathname + loc.Search
}
