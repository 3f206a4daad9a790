package statemap

import (
	"strings"

	"github.com/vango-dev/searchroute/pkg/routestate"
)

// Widget attribute keys.
const (
	AttrCategoryLvl0 = "hierarchicalCategories.lvl0"
	AttrBrand        = "brand"
	AttrRating       = "rating"
	AttrPrice        = "price"
	AttrFreeShipping = "free_shipping"
)

// UiState is the state of the search widgets, keyed by widget then by
// attribute. A nil map means that widget holds no state.
type UiState struct {
	Query            string              `json:"query,omitempty"`
	Page             string              `json:"page,omitempty"`
	HierarchicalMenu map[string][]string `json:"hierarchicalMenu,omitempty"`
	RatingMenu       map[string]Number   `json:"ratingMenu,omitempty"`
	Range            map[string]string   `json:"range,omitempty"`
	Toggle           map[string]bool     `json:"toggle,omitempty"`
	RefinementList   map[string][]string `json:"refinementList,omitempty"`
	SortBy           string              `json:"sortBy,omitempty"`
	HitsPerPage      Number              `json:"hitsPerPage,omitempty"`
}

// StateToRoute flattens widget state into a RouteState. Missing widgets
// leave their fields absent.
func StateToRoute(ui UiState) routestate.RouteState {
	rs := routestate.RouteState{
		Query:  ui.Query,
		Page:   ui.Page,
		SortBy: ui.SortBy,
	}

	if brands, ok := ui.RefinementList[AttrBrand]; ok && brands != nil {
		rs.Brands = cloneStrings(brands)
	}
	if path := ui.HierarchicalMenu[AttrCategoryLvl0]; len(path) > 0 {
		rs.Category = strings.Join(path, "/")
	}
	if rating, ok := ui.RatingMenu[AttrRating]; ok && !rating.IsNaN() {
		rs.Rating = rating.String()
	}
	rs.Price = ui.Range[AttrPrice]
	if free, ok := ui.Toggle[AttrFreeShipping]; ok {
		rs.FreeShipping = formatBool(free)
	}
	if !ui.HitsPerPage.IsNaN() && ui.HitsPerPage != 0 {
		rs.HitsPerPage = ui.HitsPerPage.String()
	}
	return rs
}

// RouteToState nests a RouteState into widget state. Every widget gets a
// record; fields absent from rs are absent inside it.
func RouteToState(rs routestate.RouteState) UiState {
	ui := UiState{
		Query:            rs.Query,
		Page:             rs.Page,
		HierarchicalMenu: map[string][]string{},
		RatingMenu:       map[string]Number{AttrRating: ParseNumber(rs.Rating)},
		Range:            map[string]string{},
		Toggle:           map[string]bool{AttrFreeShipping: ParseBool(rs.FreeShipping)},
		RefinementList:   map[string][]string{},
		SortBy:           rs.SortBy,
		HitsPerPage:      ParseNumber(rs.HitsPerPage),
	}

	if rs.Category != "" {
		ui.HierarchicalMenu[AttrCategoryLvl0] = strings.Split(rs.Category, "/")
	}
	if rs.Price != "" {
		ui.Range[AttrPrice] = rs.Price
	}
	if rs.Brands != nil {
		ui.RefinementList[AttrBrand] = cloneStrings(rs.Brands)
	}
	return ui
}

// ParseBool reads a toggle value from the URL. "" and "false" are false,
// anything else is true.
func ParseBool(s string) bool {
	return s != "" && s != "false"
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// cloneStrings copies s, keeping an empty slice distinct from nil.
func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
