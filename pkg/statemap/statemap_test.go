package statemap

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/searchroute/pkg/routestate"
)

func TestStateToRoute(t *testing.T) {
	t.Run("QueryAndCategory", func(t *testing.T) {
		ui := UiState{
			Query:            "shoes",
			HierarchicalMenu: map[string][]string{AttrCategoryLvl0: {"Cameras & Camcorders"}},
		}
		got := StateToRoute(ui)
		want := routestate.RouteState{Query: "shoes", Category: "Cameras & Camcorders"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("StateToRoute mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("AllWidgets", func(t *testing.T) {
		ui := UiState{
			Query:            "tv",
			Page:             "3",
			HierarchicalMenu: map[string][]string{AttrCategoryLvl0: {"TV & Home Theater", "TVs"}},
			RatingMenu:       map[string]Number{AttrRating: 4},
			Range:            map[string]string{AttrPrice: "100:500"},
			Toggle:           map[string]bool{AttrFreeShipping: true},
			RefinementList:   map[string][]string{AttrBrand: {"LG", "Sony"}},
			SortBy:           "instant_search_price_asc",
			HitsPerPage:      40,
		}
		got := StateToRoute(ui)
		want := routestate.RouteState{
			Query:        "tv",
			Page:         "3",
			Brands:       []string{"LG", "Sony"},
			Category:     "TV & Home Theater/TVs",
			Rating:       "4",
			Price:        "100:500",
			FreeShipping: "true",
			SortBy:       "instant_search_price_asc",
			HitsPerPage:  "40",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("StateToRoute mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("EmptyState", func(t *testing.T) {
		got := StateToRoute(UiState{})
		if diff := cmp.Diff(routestate.RouteState{}, got); diff != "" {
			t.Errorf("empty UiState should give empty RouteState (-want +got):\n%s", diff)
		}
	})

	t.Run("NaNIsAbsent", func(t *testing.T) {
		got := StateToRoute(UiState{
			RatingMenu:  map[string]Number{AttrRating: NaN()},
			HitsPerPage: NaN(),
		})
		if got.Rating != "" || got.HitsPerPage != "" {
			t.Errorf("NaN should not be written: rating=%q hitsPerPage=%q", got.Rating, got.HitsPerPage)
		}
	})

	t.Run("ToggleOff", func(t *testing.T) {
		got := StateToRoute(UiState{Toggle: map[string]bool{AttrFreeShipping: false}})
		if got.FreeShipping != "false" {
			t.Errorf("FreeShipping = %q, want false", got.FreeShipping)
		}
	})
}

func TestRouteToState(t *testing.T) {
	rs := routestate.RouteState{
		Query:        "phone",
		Page:         "2",
		Brands:       []string{"Apple"},
		Category:     "Cell Phones/Smartphones",
		Rating:       "3",
		Price:        ":300",
		FreeShipping: "true",
		SortBy:       "instant_search",
		HitsPerPage:  "80",
	}
	ui := RouteToState(rs)

	if ui.Query != "phone" || ui.Page != "2" || ui.SortBy != "instant_search" {
		t.Errorf("scalar fields = %q %q %q", ui.Query, ui.Page, ui.SortBy)
	}
	if diff := cmp.Diff([]string{"Cell Phones", "Smartphones"}, ui.HierarchicalMenu[AttrCategoryLvl0]); diff != "" {
		t.Errorf("category path (-want +got):\n%s", diff)
	}
	if ui.RatingMenu[AttrRating] != 3 {
		t.Errorf("rating = %v, want 3", ui.RatingMenu[AttrRating])
	}
	if ui.Range[AttrPrice] != ":300" {
		t.Errorf("price = %q", ui.Range[AttrPrice])
	}
	if !ui.Toggle[AttrFreeShipping] {
		t.Error("free_shipping should be on")
	}
	if diff := cmp.Diff([]string{"Apple"}, ui.RefinementList[AttrBrand]); diff != "" {
		t.Errorf("brands (-want +got):\n%s", diff)
	}
	if ui.HitsPerPage != 80 {
		t.Errorf("hitsPerPage = %v, want 80", ui.HitsPerPage)
	}
}

func TestRouteToStateMissingFields(t *testing.T) {
	ui := RouteToState(routestate.RouteState{Rating: "four", HitsPerPage: ""})

	if _, ok := ui.HierarchicalMenu[AttrCategoryLvl0]; ok {
		t.Error("empty category should leave the path absent")
	}
	if !ui.RatingMenu[AttrRating].IsNaN() {
		t.Errorf("unparsable rating = %v, want NaN", ui.RatingMenu[AttrRating])
	}
	if !ui.HitsPerPage.IsNaN() {
		t.Errorf("missing hitsPerPage = %v, want NaN", ui.HitsPerPage)
	}
	if _, ok := ui.RefinementList[AttrBrand]; ok {
		t.Error("nil brands should leave the refinement absent")
	}
}

func TestParseBool(t *testing.T) {
	tests := map[string]bool{
		"":      false,
		"false": false,
		"true":  true,
		"1":     true,
		"yes":   true,
	}
	for in, want := range tests {
		if got := ParseBool(in); got != want {
			t.Errorf("ParseBool(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRoundTripOverlappingFields(t *testing.T) {
	states := []routestate.RouteState{
		{Query: "shoes", Page: "2", SortBy: "instant_search_price_desc", HitsPerPage: "40"},
		{Brands: []string{"Apple", "Samsung"}, Category: "Cameras & Camcorders/Digital Cameras", Price: "10:"},
		{Brands: []string{}},
		{},
	}

	for _, rs := range states {
		got := StateToRoute(RouteToState(rs))
		overlap := func(r routestate.RouteState) routestate.RouteState {
			return routestate.RouteState{
				Query: r.Query, Page: r.Page, SortBy: r.SortBy, HitsPerPage: r.HitsPerPage,
				Brands: r.Brands, Category: r.Category, Price: r.Price,
			}
		}
		if diff := cmp.Diff(overlap(rs), overlap(got)); diff != "" {
			t.Errorf("round trip of %+v changed (-want +got):\n%s", rs, diff)
		}
	}
}

func TestNumberJSON(t *testing.T) {
	ui := RouteToState(routestate.RouteState{HitsPerPage: "20"})
	data, err := json.Marshal(ui.RatingMenu)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"rating":null}` {
		t.Errorf("NaN rating marshals as %s", data)
	}

	var back struct {
		HitsPerPage Number `json:"hitsPerPage"`
		Rating      Number `json:"rating"`
		Text        Number `json:"text"`
	}
	if err := json.Unmarshal([]byte(`{"hitsPerPage":40,"rating":null,"text":"2.5"}`), &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.HitsPerPage != 40 || !back.Rating.IsNaN() || back.Text != 2.5 {
		t.Errorf("Unmarshal = %+v", back)
	}
}

func TestParseNumber(t *testing.T) {
	if ParseNumber(" 4 ") != 4 {
		t.Error("whitespace should be ignored")
	}
	if ParseNumber("2.50").String() != "2.5" {
		t.Errorf("String() = %q", ParseNumber("2.50").String())
	}
	if !ParseNumber("4 stars").IsNaN() {
		t.Error("garbage should be NaN")
	}
	if NaN().String() != "NaN" {
		t.Error("NaN String")
	}
}
