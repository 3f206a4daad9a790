package urlparam

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type filters struct {
	Category string   `url:"cat"`
	Tags     []string `url:"tags"`
	Sort     string
	Internal string `url:"-"`
	Page     int
	hidden   string
}

func TestEncode(t *testing.T) {
	got := Encode(filters{Category: "tech", Tags: []string{"go", "web"}, Sort: "asc", Internal: "x", Page: 2, hidden: "y"})
	want := Values{
		{Key: "cat", Values: []string{"tech"}},
		{Key: "tags", Values: []string{"go", "web"}},
		{Key: "sort", Values: []string{"asc"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Encode mismatch (-want +got):\n%s", diff)
	}

	if got := Encode(&filters{}); got != nil {
		t.Errorf("empty fields should encode to nothing, got %v", got)
	}
	if Encode("not a struct") != nil {
		t.Error("non-struct should encode to nothing")
	}
	if Encode((*filters)(nil)) != nil {
		t.Error("nil pointer should encode to nothing")
	}
}

func TestDecode(t *testing.T) {
	values := Parse("cat=books&tags=a&tags=b&sort=desc&sort=asc&Internal=x")

	var f filters
	if err := Decode(values, &f); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := filters{Category: "books", Tags: []string{"a", "b"}, Sort: "desc"}
	if diff := cmp.Diff(want, f, cmp.AllowUnexported(filters{})); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

type namedTags []string

func TestDecodeNamedSlice(t *testing.T) {
	var dst struct {
		Tags namedTags `url:"tags"`
	}
	if err := Decode(Parse("tags=x&tags=y"), &dst); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(namedTags{"x", "y"}, dst.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
	if got := Encode(dst); !cmp.Equal(got, Values{{Key: "tags", Values: []string{"x", "y"}}}) {
		t.Errorf("Encode = %v", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	var f filters
	if err := Decode(Parse("page=7"), &f); err == nil {
		t.Error("expected error for a non-string field")
	}
	if err := Decode(nil, f); err == nil {
		t.Error("expected error for non-pointer")
	}
	n := 3
	if err := Decode(nil, &n); err == nil {
		t.Error("expected error for non-struct pointer")
	}
}
