package routing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/searchroute/pkg/category"
	"github.com/vango-dev/searchroute/pkg/routestate"
	"github.com/vango-dev/searchroute/pkg/statemap"
)

func mustLocation(t *testing.T, href string) Location {
	t.Helper()
	loc, err := ParseLocation(href)
	if err != nil {
		t.Fatalf("ParseLocation(%q): %v", href, err)
	}
	return loc
}

func TestCreateURL(t *testing.T) {
	r := New()
	loc := mustLocation(t, "https://shop.example.com/search/TV/?query=old")

	tests := []struct {
		name string
		rs   routestate.RouteState
		want string
	}{
		{
			name: "empty",
			rs:   routestate.RouteState{},
			want: "https://shop.example.com/search/",
		},
		{
			name: "defaults elided",
			rs: routestate.RouteState{
				Page: "1", Brands: []string{}, FreeShipping: "false",
				SortBy: "instant_search", HitsPerPage: "20",
			},
			want: "https://shop.example.com/search/",
		},
		{
			name: "aliased category",
			rs:   routestate.RouteState{Query: "shoes", Category: "Cameras & Camcorders"},
			want: "https://shop.example.com/search/Cameras/?query=shoes",
		},
		{
			name: "plain category",
			rs:   routestate.RouteState{Category: "Home Audio"},
			want: "https://shop.example.com/search/Home+Audio/",
		},
		{
			name: "field order and repeated brands",
			rs: routestate.RouteState{
				HitsPerPage: "40", SortBy: "instant_search_price_asc", FreeShipping: "true",
				Price: "10:100", Rating: "4", Brands: []string{"Apple", "Samsung"}, Page: "3", Query: "phone",
			},
			want: "https://shop.example.com/search/?query=phone&page=3&brands=Apple&brands=Samsung" +
				"&rating=4&price=10%3A100&free_shipping=true&sortBy=instant_search_price_asc&hitsPerPage=40",
		},
		{
			name: "values encoded twice",
			rs:   routestate.RouteState{Query: "red shoes", Brands: []string{"Bang & Olufsen"}},
			want: "https://shop.example.com/search/?query=red%2520shoes&brands=Bang%2520%2526%2520Olufsen",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.CreateURL(tc.rs, loc); got != tc.want {
				t.Errorf("CreateURL =\n  %q\nwant\n  %q", got, tc.want)
			}
		})
	}
}

func TestCreateURLBase(t *testing.T) {
	r := New()
	rs := routestate.RouteState{Query: "tv"}

	tests := []struct {
		href string
		want string
	}{
		{"http://localhost:3000/", "http://localhost:3000/search/?query=tv"},
		{"http://localhost:3000/shop/", "http://localhost:3000/shop/search/?query=tv"},
		{"https://shop.example.com/en/search/Phones/?page=2", "https://shop.example.com/en/search/?query=tv"},
		{"https://shop.example.com/search/#filters", "https://shop.example.com/search/?query=tv#filters"},
		{"https://search.example.com/search/?query=x", "https://search.example.com/search/?query=tv"},
		{"http://search.example.com/", "http://search.example.com/search/?query=tv"},
		{"https://shop.example.com/help?from=/search", "https://shop.example.com/help/search/?query=tv"},
		{"http://[::1]:8080/search/TV/", "http://[::1]:8080/search/?query=tv"},
	}

	for _, tc := range tests {
		if got := r.CreateURL(rs, mustLocation(t, tc.href)); got != tc.want {
			t.Errorf("CreateURL from %q = %q, want %q", tc.href, got, tc.want)
		}
	}
}

func TestCreateURLDeterministic(t *testing.T) {
	r := New()
	loc := mustLocation(t, "https://shop.example.com/search")
	rs := routestate.RouteState{Query: "a", Brands: []string{"x", "y"}, Price: "1:2", HitsPerPage: "80"}
	first := r.CreateURL(rs, loc)
	for i := 0; i < 10; i++ {
		if got := r.CreateURL(rs, loc); got != first {
			t.Fatalf("CreateURL not deterministic: %q vs %q", got, first)
		}
	}
}

func TestParseURL(t *testing.T) {
	r := New()

	t.Run("Defaults", func(t *testing.T) {
		got := r.ParseURL(mustLocation(t, "https://shop.example.com/search"))
		want := routestate.RouteState{
			Query: "", Page: "1", Brands: []string{}, Category: "", Rating: "",
			Price: "", FreeShipping: "false", SortBy: "instant_search", HitsPerPage: "20",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ParseURL mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("RepeatedBrands", func(t *testing.T) {
		got := r.ParseURL(mustLocation(t, "https://shop.example.com/search/?brands=Apple&brands=Samsung"))
		if diff := cmp.Diff([]string{"Apple", "Samsung"}, got.Brands); diff != "" {
			t.Errorf("brands (-want +got):\n%s", diff)
		}
	})

	t.Run("BracketedBrands", func(t *testing.T) {
		got := r.ParseURL(mustLocation(t, "https://shop.example.com/search/?brands%5B%5D=Apple&brands[1]=Sony"))
		if diff := cmp.Diff([]string{"Apple", "Sony"}, got.Brands); diff != "" {
			t.Errorf("brands (-want +got):\n%s", diff)
		}
	})

	t.Run("SingleBrandIsSlice", func(t *testing.T) {
		got := r.ParseURL(mustLocation(t, "https://shop.example.com/search/?brands=Apple"))
		if diff := cmp.Diff([]string{"Apple"}, got.Brands); diff != "" {
			t.Errorf("brands (-want +got):\n%s", diff)
		}
	})

	t.Run("EmptyBrandDropped", func(t *testing.T) {
		got := r.ParseURL(mustLocation(t, "https://shop.example.com/search/?brands="))
		if len(got.Brands) != 0 || got.Brands == nil {
			t.Errorf("brands = %#v, want empty slice", got.Brands)
		}
	})

	t.Run("Category", func(t *testing.T) {
		got := r.ParseURL(mustLocation(t, "https://shop.example.com/search/Cameras/?query=shoes"))
		if got.Category != "Cameras & Camcorders" || got.Query != "shoes" {
			t.Errorf("category=%q query=%q", got.Category, got.Query)
		}
		got = r.ParseURL(mustLocation(t, "https://shop.example.com/search/Home+Audio"))
		if got.Category != "Home Audio" {
			t.Errorf("category without trailing slash = %q", got.Category)
		}
	})

	t.Run("Fallbacks", func(t *testing.T) {
		got := r.ParseURL(mustLocation(t, "https://shop.example.com/search/?hitsPerPage=1000&sortBy=nope&rating=9"))
		if got.HitsPerPage != "20" || got.SortBy != "instant_search" || got.Rating != "" {
			t.Errorf("fallbacks gave hitsPerPage=%q sortBy=%q rating=%q", got.HitsPerPage, got.SortBy, got.Rating)
		}
		got = r.ParseURL(mustLocation(t, "https://shop.example.com/search/?hitsPerPage=80&sortBy=instant_search_price_desc&rating=2"))
		if got.HitsPerPage != "80" || got.SortBy != "instant_search_price_desc" || got.Rating != "2" {
			t.Errorf("accepted values changed: hitsPerPage=%q sortBy=%q rating=%q", got.HitsPerPage, got.SortBy, got.Rating)
		}
	})

	t.Run("HandWrittenQuery", func(t *testing.T) {
		got := r.ParseURL(mustLocation(t, "https://shop.example.com/search/?query=red+shoes&page=2&free_shipping=true&price=%3A50"))
		if got.Query != "red shoes" || got.Page != "2" || got.FreeShipping != "true" || got.Price != ":50" {
			t.Errorf("ParseURL = %+v", got)
		}
	})
}

func TestRoundTrip(t *testing.T) {
	r := New()
	loc := mustLocation(t, "https://shop.example.com/search/")

	states := []routestate.RouteState{
		{Query: "shoes", Category: "Cameras & Camcorders"},
		{Query: "50% off & more", Brands: []string{"Bang & Olufsen", "B+W"}},
		{Page: "4", Rating: "3", Price: "10:200", FreeShipping: "true", SortBy: "instant_search_price_asc", HitsPerPage: "80"},
		{Category: "TV & Home Theater/TVs"},
		{Category: "Computers & Tablets"},
		{},
	}

	for _, rs := range states {
		href := r.CreateURL(rs, loc)
		got := r.ParseURL(mustLocation(t, href))
		if diff := cmp.Diff(routestate.Elide(rs), routestate.Elide(got)); diff != "" {
			t.Errorf("round trip through %q (-want +got):\n%s", href, diff)
		}
	}
}

func TestWindowTitle(t *testing.T) {
	r := New(WithWindowTitle("Shop"))

	tests := []struct {
		rs   routestate.RouteState
		want string
	}{
		{routestate.RouteState{}, "Shop"},
		{routestate.RouteState{Query: "zoom"}, `Results for "zoom" | Shop`},
		{routestate.RouteState{Query: "zoom", Category: "Cameras & Camcorders"}, `Results for "zoom" | Cameras & Camcorders | Shop`},
		{routestate.RouteState{Category: "Cell Phones"}, "Cell Phones | Shop"},
	}
	for _, tc := range tests {
		if got := r.WindowTitle(tc.rs); got != tc.want {
			t.Errorf("WindowTitle(%+v) = %q, want %q", tc.rs, got, tc.want)
		}
	}

	if got := New().WindowTitle(routestate.RouteState{}); got != "" {
		t.Errorf("no base title and empty state = %q", got)
	}
}

func TestOptions(t *testing.T) {
	codec, err := category.NewCodec(map[string]string{"Audio": "Home Audio & Speakers"})
	if err != nil {
		t.Fatal(err)
	}
	r := New(
		WithAnchor("catalog"),
		WithCategories(codec),
		WithFallbacks(routestate.Fallbacks{
			HitsPerPage: routestate.Choice{Accepted: []string{"12", "24"}, Default: "12"}.Resolve,
		}),
	)

	loc := mustLocation(t, "https://shop.example.com/catalog/")
	href := r.CreateURL(routestate.RouteState{Category: "Home Audio & Speakers", HitsPerPage: "24"}, loc)
	if href != "https://shop.example.com/catalog/Audio/?hitsPerPage=24" {
		t.Errorf("CreateURL = %q", href)
	}

	got := r.ParseURL(mustLocation(t, "https://shop.example.com/catalog/Audio/?sortBy=bogus"))
	if got.Category != "Home Audio & Speakers" || got.HitsPerPage != "12" || got.SortBy != "instant_search" {
		t.Errorf("ParseURL = %+v", got)
	}
	if r.Anchor().Name() != "catalog" {
		t.Errorf("Anchor = %q", r.Anchor().Name())
	}
}

func TestHrefAndRead(t *testing.T) {
	r := New()
	loc := mustLocation(t, "https://shop.example.com/search")

	ui := statemap.UiState{
		Query:            "shoes",
		HierarchicalMenu: map[string][]string{statemap.AttrCategoryLvl0: {"Cameras & Camcorders"}},
	}
	href := r.Href(ui, loc)
	if href != "https://shop.example.com/search/Cameras/?query=shoes" {
		t.Fatalf("Href = %q", href)
	}

	back := r.Read(mustLocation(t, href))
	if back.Query != "shoes" {
		t.Errorf("Query = %q", back.Query)
	}
	if diff := cmp.Diff([]string{"Cameras & Camcorders"}, back.HierarchicalMenu[statemap.AttrCategoryLvl0]); diff != "" {
		t.Errorf("category (-want +got):\n%s", diff)
	}
	if back.HitsPerPage != 20 {
		t.Errorf("HitsPerPage = %v, want 20", back.HitsPerPage)
	}
	if back.Toggle[statemap.AttrFreeShipping] {
		t.Error("free_shipping default must read as off")
	}
}
