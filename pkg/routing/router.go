// Package routing turns search route state into URLs and back.
//
// A search URL has three parts:
//
//	https://shop.example.com/search/Cameras/?query=zoom&brands=Canon&brands=Nikon
//	└──────────── base ────────────┘└category┘└──────────── query ─────────────┘
//
// The base ends at the first "/search" in the current href. The category
// slug comes from the category codec. The query holds every field that
// differs from its default, with repeated keys for brands.
package routing

import (
	"strings"

	"github.com/vango-dev/searchroute/pkg/category"
	"github.com/vango-dev/searchroute/pkg/routepath"
	"github.com/vango-dev/searchroute/pkg/routestate"
	"github.com/vango-dev/searchroute/pkg/statemap"
	"github.com/vango-dev/searchroute/pkg/urlparam"
)

// Router builds and parses search URLs. It holds no mutable state and is
// safe for concurrent use.
type Router struct {
	anchor    *routepath.Anchor
	codec     *category.Codec
	fallbacks routestate.Fallbacks
	title     string
}

// Option configures a Router.
type Option func(*Router)

// WithAnchor sets the path segment that marks the search page.
func WithAnchor(name string) Option {
	return func(r *Router) {
		r.anchor = routepath.NewAnchor(name)
	}
}

// WithCategories sets the category codec.
func WithCategories(codec *category.Codec) Option {
	return func(r *Router) {
		r.codec = codec
	}
}

// WithFallbacks sets the resolvers for hitsPerPage, sortBy and rating.
// Nil resolvers keep the built-in ones.
func WithFallbacks(f routestate.Fallbacks) Option {
	return func(r *Router) {
		r.fallbacks = f.WithDefaults()
	}
}

// WithWindowTitle sets the page title that WindowTitle appends.
func WithWindowTitle(title string) Option {
	return func(r *Router) {
		r.title = title
	}
}

// New creates a Router. Without options it uses the "search" anchor, the
// default category aliases and the built-in fallbacks.
func New(opts ...Option) *Router {
	r := &Router{
		anchor:    routepath.NewAnchor(routepath.DefaultAnchor),
		codec:     category.Default(),
		fallbacks: routestate.DefaultFallbacks(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Anchor returns the router's search anchor.
func (r *Router) Anchor() *routepath.Anchor {
	return r.anchor
}

// CreateURL returns the URL for rs, relative to the current location.
// The output depends only on rs and loc.
func (r *Router) CreateURL(rs routestate.RouteState, loc Location) string {
	base := r.base(loc)

	var categoryPath string
	if rs.Category != "" {
		categoryPath = r.codec.Encode(rs.Category) + "/"
	}

	params := routestate.Elide(rs)
	if params.Query != "" {
		params.Query = urlparam.EscapeComponent(params.Query)
	}
	for i, b := range params.Brands {
		params.Brands[i] = urlparam.EscapeComponent(b)
	}

	qs := urlparam.Stringify(urlparam.Encode(params), urlparam.AddQueryPrefix)

	return base + "/" + categoryPath + qs + loc.Hash
}

// base is the origin plus the pathname up to the anchor. Without an
// anchor in the path, the anchor is appended to the current directory.
func (r *Router) base(loc Location) string {
	if prefix, ok := r.anchor.Base(loc.Pathname); ok {
		return loc.Origin() + prefix
	}
	pathname := loc.Pathname
	if !strings.HasSuffix(pathname, "/") {
		pathname += "/"
	}
	return loc.Origin() + pathname + r.anchor.Name()
}

// ParseURL reads the route state from a location. Fields the URL does
// not set take their defaults; hitsPerPage, sortBy and rating are run
// through the fallbacks.
func (r *Router) ParseURL(loc Location) routestate.RouteState {
	cat := r.codec.Decode(r.anchor.Segment(loc.Pathname))

	var raw routestate.RouteState
	// RouteState only has string fields, which always decode.
	_ = urlparam.Decode(urlparam.Parse(loc.Search), &raw)

	brands := make([]string, 0, len(raw.Brands))
	for _, b := range raw.Brands {
		if b == "" {
			continue
		}
		brands = append(brands, urlparam.UnescapeComponent(b))
	}

	return routestate.FillDefaults(routestate.RouteState{
		Query:        urlparam.UnescapeComponent(raw.Query),
		Page:         raw.Page,
		Brands:       brands,
		Category:     cat,
		Rating:       r.fallbacks.Rating(raw.Rating),
		Price:        raw.Price,
		FreeShipping: raw.FreeShipping,
		SortBy:       r.fallbacks.SortBy(raw.SortBy),
		HitsPerPage:  r.fallbacks.HitsPerPage(raw.HitsPerPage),
	})
}

// WindowTitle returns the document title for rs:
//
//	Results for "zoom" | Cameras & Camcorders | Shop
//
// Empty parts are dropped.
func (r *Router) WindowTitle(rs routestate.RouteState) string {
	var parts []string
	if rs.Query != "" {
		parts = append(parts, `Results for "`+rs.Query+`"`)
	}
	if rs.Category != "" {
		parts = append(parts, rs.Category)
	}
	if r.title != "" {
		parts = append(parts, r.title)
	}
	return strings.Join(parts, " | ")
}

// Href returns the URL for a widget state.
func (r *Router) Href(ui statemap.UiState, loc Location) string {
	return r.CreateURL(statemap.StateToRoute(ui), loc)
}

// Read returns the widget state encoded in a location.
func (r *Router) Read(loc Location) statemap.UiState {
	return statemap.RouteToState(r.ParseURL(loc))
}
