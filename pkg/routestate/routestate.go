// Package routestate defines the flat, URL-shaped record of a search page
// and the defaults that keep its URLs short.
package routestate

// RouteState is the flat form of the search UI state. An empty string, or
// a nil Brands, means the field is absent.
//
// Field order is the query-string order. Category travels in the path.
type RouteState struct {
	Query        string   `url:"query" json:"query,omitempty"`
	Page         string   `url:"page" json:"page,omitempty"`
	Brands       []string `url:"brands" json:"brands,omitempty"`
	Category     string   `url:"-" json:"category,omitempty"`
	Rating       string   `url:"rating" json:"rating,omitempty"`
	Price        string   `url:"price" json:"price,omitempty"`
	FreeShipping string   `url:"free_shipping" json:"free_shipping,omitempty"`
	SortBy       string   `url:"sortBy" json:"sortBy,omitempty"`
	HitsPerPage  string   `url:"hitsPerPage" json:"hitsPerPage,omitempty"`
}

// Field names as they appear in URLs.
const (
	FieldQuery        = "query"
	FieldPage         = "page"
	FieldBrands       = "brands"
	FieldCategory     = "category"
	FieldRating       = "rating"
	FieldPrice        = "price"
	FieldFreeShipping = "free_shipping"
	FieldSortBy       = "sortBy"
	FieldHitsPerPage  = "hitsPerPage"
)

// Defaults is the value each field takes when the URL does not mention it.
// Brands has no default: any non-empty set is written out.
var Defaults = map[string]string{
	FieldQuery:        "",
	FieldPage:         "1",
	FieldCategory:     "",
	FieldRating:       "",
	FieldPrice:        "",
	FieldFreeShipping: "false",
	FieldSortBy:       "instant_search",
	FieldHitsPerPage:  "20",
}

// Elide returns a copy of rs holding only the fields that are set and
// differ from their default.
func Elide(rs RouteState) RouteState {
	return RouteState{
		Query:        elide(FieldQuery, rs.Query),
		Page:         elide(FieldPage, rs.Page),
		Brands:       elideBrands(rs.Brands),
		Category:     elide(FieldCategory, rs.Category),
		Rating:       elide(FieldRating, rs.Rating),
		Price:        elide(FieldPrice, rs.Price),
		FreeShipping: elide(FieldFreeShipping, rs.FreeShipping),
		SortBy:       elide(FieldSortBy, rs.SortBy),
		HitsPerPage:  elide(FieldHitsPerPage, rs.HitsPerPage),
	}
}

// FillDefaults returns a copy of rs with every absent field set to its
// default. Brands becomes an empty, non-nil slice.
func FillDefaults(rs RouteState) RouteState {
	out := rs
	out.Query = orDefault(FieldQuery, rs.Query)
	out.Page = orDefault(FieldPage, rs.Page)
	out.Category = orDefault(FieldCategory, rs.Category)
	out.Rating = orDefault(FieldRating, rs.Rating)
	out.Price = orDefault(FieldPrice, rs.Price)
	out.FreeShipping = orDefault(FieldFreeShipping, rs.FreeShipping)
	out.SortBy = orDefault(FieldSortBy, rs.SortBy)
	out.HitsPerPage = orDefault(FieldHitsPerPage, rs.HitsPerPage)
	out.Brands = make([]string, len(rs.Brands))
	copy(out.Brands, rs.Brands)
	return out
}

// IsDefault reports whether the value of field is its default.
func IsDefault(field, value string) bool {
	return value == "" || value == Defaults[field]
}

func elide(field, value string) string {
	if IsDefault(field, value) {
		return ""
	}
	return value
}

func elideBrands(brands []string) []string {
	if len(brands) == 0 {
		return nil
	}
	return append([]string(nil), brands...)
}

func orDefault(field, value string) string {
	if value == "" {
		return Defaults[field]
	}
	return value
}
