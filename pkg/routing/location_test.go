package routing

import "testing"

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("https://shop.example.com:8443/search/Home+Audio%2FSpeakers/?query=x&brands=LG#top")
	if err != nil {
		t.Fatalf("ParseLocation: %v", err)
	}
	want := Location{
		Protocol: "https:",
		Hostname: "shop.example.com",
		Port:     "8443",
		Pathname: "/search/Home+Audio%2FSpeakers/",
		Search:   "?query=x&brands=LG",
		Hash:     "#top",
		Href:     "https://shop.example.com:8443/search/Home+Audio%2FSpeakers/?query=x&brands=LG#top",
	}
	if loc != want {
		t.Errorf("ParseLocation =\n  %+v\nwant\n  %+v", loc, want)
	}
	if loc.PathAndQuery() != "/search/Home+Audio%2FSpeakers/?query=x&brands=LG" {
		t.Errorf("PathAndQuery = %q", loc.PathAndQuery())
	}
}

func TestParseLocationRejectsRelative(t *testing.T) {
	for _, href := range []string{"/search", "search?x=1", "http://"} {
		if _, err := ParseLocation(href); err == nil {
			t.Errorf("ParseLocation(%q) should fail", href)
		}
	}
}

func TestLocationResolve(t *testing.T) {
	loc, err := ParseLocation("https://shop.example.com/search/TV/")
	if err != nil {
		t.Fatal(err)
	}
	next, err := loc.Resolve("/search/Phones/?page=2")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if next.Href != "https://shop.example.com/search/Phones/?page=2" || next.Pathname != "/search/Phones/" {
		t.Errorf("Resolve = %+v", next)
	}
}

func TestLocationOrigin(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"https://shop.example.com/search/", "https://shop.example.com"},
		{"http://localhost:3000/en/search", "http://localhost:3000"},
		{"http://[::1]:8080/search", "http://[::1]:8080"},
		{"https://search.example.com/search/?query=x", "https://search.example.com"},
	}

	for _, tc := range tests {
		loc, err := ParseLocation(tc.href)
		if err != nil {
			t.Fatalf("ParseLocation(%q): %v", tc.href, err)
		}
		if got := loc.Origin(); got != tc.want {
			t.Errorf("Origin(%q) = %q, want %q", tc.href, got, tc.want)
		}
	}
}
