package routestate

// Choice is a fixed set of accepted values with a fallback.
type Choice struct {
	Accepted []string `json:"accepted" yaml:"accepted"`
	Default  string   `json:"default" yaml:"default"`
}

// Resolve returns raw if it is accepted and the default otherwise.
func (c Choice) Resolve(raw string) string {
	for _, v := range c.Accepted {
		if v == raw {
			return raw
		}
	}
	return c.Default
}

// Valid reports whether the default is itself accepted.
func (c Choice) Valid() bool {
	for _, v := range c.Accepted {
		if v == c.Default {
			return true
		}
	}
	return false
}

// Built-in choices for the resolvable fields.
var (
	HitsPerPageChoice = Choice{
		Accepted: []string{"20", "40", "80"},
		Default:  "20",
	}
	SortByChoice = Choice{
		Accepted: []string{"instant_search", "instant_search_price_asc", "instant_search_price_desc"},
		Default:  "instant_search",
	}
	RatingChoice = Choice{
		Accepted: []string{"", "1", "2", "3", "4"},
		Default:  "",
	}
)

// Resolver maps any raw URL value, including "", to an accepted one.
type Resolver func(raw string) string

// Fallbacks resolves the fields that only take a fixed set of values.
type Fallbacks struct {
	HitsPerPage Resolver
	SortBy      Resolver
	Rating      Resolver
}

// DefaultFallbacks resolves against the built-in choices.
func DefaultFallbacks() Fallbacks {
	return Fallbacks{
		HitsPerPage: HitsPerPageChoice.Resolve,
		SortBy:      SortByChoice.Resolve,
		Rating:      RatingChoice.Resolve,
	}
}

// FallbacksFor resolves against the given choices.
func FallbacksFor(hitsPerPage, sortBy, rating Choice) Fallbacks {
	return Fallbacks{
		HitsPerPage: hitsPerPage.Resolve,
		SortBy:      sortBy.Resolve,
		Rating:      rating.Resolve,
	}
}

// WithDefaults fills nil resolvers from DefaultFallbacks.
func (f Fallbacks) WithDefaults() Fallbacks {
	d := DefaultFallbacks()
	if f.HitsPerPage == nil {
		f.HitsPerPage = d.HitsPerPage
	}
	if f.SortBy == nil {
		f.SortBy = d.SortBy
	}
	if f.Rating == nil {
		f.Rating = d.Rating
	}
	return f
}
