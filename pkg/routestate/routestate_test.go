package routestate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestElide(t *testing.T) {
	tests := []struct {
		name string
		in   RouteState
		want RouteState
	}{
		{
			name: "all defaults",
			in: RouteState{
				Query: "", Page: "1", Brands: []string{}, Category: "", Rating: "",
				Price: "", FreeShipping: "false", SortBy: "instant_search", HitsPerPage: "20",
			},
			want: RouteState{},
		},
		{
			name: "non-defaults kept",
			in: RouteState{
				Query: "zoom", Page: "2", Brands: []string{"Canon"}, Category: "Cameras & Camcorders",
				Rating: "3", Price: "50:", FreeShipping: "true", SortBy: "instant_search_price_asc", HitsPerPage: "40",
			},
			want: RouteState{
				Query: "zoom", Page: "2", Brands: []string{"Canon"}, Category: "Cameras & Camcorders",
				Rating: "3", Price: "50:", FreeShipping: "true", SortBy: "instant_search_price_asc", HitsPerPage: "40",
			},
		},
		{
			name: "mixed",
			in:   RouteState{Query: "tv", Page: "1", SortBy: "instant_search", HitsPerPage: "80"},
			want: RouteState{Query: "tv", HitsPerPage: "80"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, Elide(tc.in)); diff != "" {
				t.Errorf("Elide mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestElideCopiesBrands(t *testing.T) {
	in := RouteState{Brands: []string{"Apple"}}
	out := Elide(in)
	out.Brands[0] = "Samsung"
	if in.Brands[0] != "Apple" {
		t.Error("Elide should not share the brands slice")
	}
}

func TestFillDefaults(t *testing.T) {
	got := FillDefaults(RouteState{Query: "tv", Brands: nil})
	want := RouteState{
		Query: "tv", Page: "1", Brands: []string{}, Category: "", Rating: "",
		Price: "", FreeShipping: "false", SortBy: "instant_search", HitsPerPage: "20",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FillDefaults mismatch (-want +got):\n%s", diff)
	}

	// Elide undoes FillDefaults.
	if diff := cmp.Diff(RouteState{Query: "tv"}, Elide(got)); diff != "" {
		t.Errorf("Elide(FillDefaults) mismatch (-want +got):\n%s", diff)
	}
}

func TestIsDefault(t *testing.T) {
	if !IsDefault(FieldPage, "1") || !IsDefault(FieldPage, "") {
		t.Error("page 1 and empty page are defaults")
	}
	if IsDefault(FieldPage, "01") {
		t.Error("comparison is on the string form")
	}
	if IsDefault(FieldFreeShipping, "true") {
		t.Error("free_shipping=true is not a default")
	}
}

func TestChoiceResolve(t *testing.T) {
	tests := []struct {
		choice Choice
		in     string
		want   string
	}{
		{HitsPerPageChoice, "40", "40"},
		{HitsPerPageChoice, "", "20"},
		{HitsPerPageChoice, "1000", "20"},
		{HitsPerPageChoice, "40 ", "20"},
		{SortByChoice, "instant_search_price_desc", "instant_search_price_desc"},
		{SortByChoice, "popularity", "instant_search"},
		{RatingChoice, "4", "4"},
		{RatingChoice, "5", ""},
		{RatingChoice, "", ""},
	}

	for _, tc := range tests {
		if got := tc.choice.Resolve(tc.in); got != tc.want {
			t.Errorf("Resolve(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestChoiceValid(t *testing.T) {
	for name, c := range map[string]Choice{"hits": HitsPerPageChoice, "sort": SortByChoice, "rating": RatingChoice} {
		if !c.Valid() {
			t.Errorf("%s: built-in choice default must be accepted", name)
		}
	}
	if (Choice{Accepted: []string{"a"}, Default: "b"}).Valid() {
		t.Error("default outside the accepted set should be invalid")
	}
}

func TestFallbacksWithDefaults(t *testing.T) {
	f := Fallbacks{SortBy: func(string) string { return "custom" }}.WithDefaults()
	if f.SortBy("x") != "custom" {
		t.Error("explicit resolver should be kept")
	}
	if f.HitsPerPage("") != "20" || f.Rating("9") != "" {
		t.Error("nil resolvers should fall back to the built-in choices")
	}
}
