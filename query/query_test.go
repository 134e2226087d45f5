package query

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ancientlore/quill/content"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// abc is the three post collection used throughout: newest first.
func abc() []content.Post {
	return []content.Post{
		{Slug: "a", Title: "A", Date: day("2024-03-01"), Tags: []string{"x", "y"}},
		{Slug: "b", Title: "B", Date: day("2024-02-01"), Tags: []string{"y"}},
		{Slug: "c", Title: "C", Date: day("2024-01-01")},
	}
}

func slugs(posts []content.Post) []string {
	s := []string{}
	for _, p := range posts {
		s = append(s, p.Slug)
	}
	return s
}

func TestEndToEnd(t *testing.T) {
	posts := SortByDate([]content.Post{abc()[2], abc()[0], abc()[1]})
	if got := slugs(posts); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("SortByDate = %v", got)
	}
	if got, want := AllTags(posts), []TagCount{{"x", 1}, {"y", 2}}; !reflect.DeepEqual(got, want) {
		t.Errorf("AllTags = %v, want %v", got, want)
	}
	if got := slugs(ByTag(posts, "y")); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("ByTag(y) = %v", got)
	}
	n := Adjacent(posts, "b")
	if n.Prev == nil || n.Prev.Slug != "c" || n.Next == nil || n.Next.Slug != "a" {
		t.Errorf("Adjacent(b) = %+v", n)
	}
	if got := slugs(Related(posts, "a", []string{"x", "y"}, "", 0)); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Related(a) = %v", got)
	}
}

func TestSortByDateCopies(t *testing.T) {
	in := []content.Post{abc()[2], abc()[0]}
	out := SortByDate(in)
	if in[0].Slug != "c" {
		t.Error("input was reordered")
	}
	if out[0].Slug != "a" {
		t.Errorf("unexpected order %v", slugs(out))
	}
}

func TestSortByDateTies(t *testing.T) {
	d := day("2024-01-01")
	posts := SortByDate([]content.Post{{Slug: "m", Date: d}, {Slug: "b", Date: d}, {Slug: "z", Date: d}})
	if got := slugs(posts); !reflect.DeepEqual(got, []string{"b", "m", "z"}) {
		t.Errorf("ties should sort by slug, got %v", got)
	}
}

func TestAllTagsConsistent(t *testing.T) {
	posts := append(abc(),
		content.Post{Slug: "d", Tags: []string{"y", "go lang", "x"}},
		content.Post{Slug: "e", Tags: []string{"dup", "x", "dup"}},
	)
	for _, tc := range AllTags(posts) {
		n := 0
		for _, p := range posts {
			if p.HasTag(tc.Tag) {
				n++
			}
		}
		if n != tc.Count {
			t.Errorf("tag %q: count %d, want %d", tc.Tag, tc.Count, n)
		}
		if got := len(ByTag(posts, tc.Tag)); got != tc.Count {
			t.Errorf("ByTag(%q) has %d posts, want %d", tc.Tag, got, tc.Count)
		}
	}
	if len(AllTags(nil)) != 0 {
		t.Error("expected no tags for no posts")
	}
	dup := AllTags([]content.Post{{Slug: "a", Tags: []string{"x", "x"}}})
	if len(dup) != 1 || dup[0].Count != 1 {
		t.Errorf("repeated tag in one post: got %v, want [{x 1}]", dup)
	}
}

func TestByTagCaseSensitive(t *testing.T) {
	if got := ByTag(abc(), "Y"); len(got) != 0 {
		t.Errorf("tags should match exactly, got %v", slugs(got))
	}
}

func TestTagEncoding(t *testing.T) {
	for _, tag := range []string{"go", "machine learning", "c#", "a/b", "naïve"} {
		enc := EncodeTag(tag)
		if strings.ContainsAny(enc, " /#") {
			t.Errorf("EncodeTag(%q) = %q is not a single path element", tag, enc)
		}
		dec, err := DecodeTag(enc)
		if err != nil || dec != tag {
			t.Errorf("DecodeTag(%q) = %q, %v; want %q", enc, dec, err, tag)
		}
	}
	if _, err := DecodeTag("bad%zz"); err == nil {
		t.Error("expected an error for a bad escape")
	}
}

func TestCategories(t *testing.T) {
	posts := abc()
	posts[0].Category = "notes"
	posts[2].Category = "notes"
	posts[1].Category = "essays"
	want := []CategoryCount{{"essays", 1}, {"notes", 2}}
	if got := AllCategories(posts); !reflect.DeepEqual(got, want) {
		t.Errorf("AllCategories = %v, want %v", got, want)
	}
	if got := slugs(ByCategory(posts, "notes")); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("ByCategory(notes) = %v", got)
	}
	if got := ByCategory(abc(), ""); len(got) != 0 {
		t.Errorf("empty category should match nothing, got %v", slugs(got))
	}
}

func TestRelated(t *testing.T) {
	posts := []content.Post{
		{Slug: "self", Tags: []string{"go", "web"}, Category: "dev"},
		{Slug: "one-tag", Tags: []string{"go"}},
		{Slug: "cat-only", Category: "dev"},
		{Slug: "two-tags", Tags: []string{"web", "go"}},
		{Slug: "one-tag-b", Tags: []string{"web"}},
		{Slug: "none", Tags: []string{"rust"}},
	}
	got := slugs(Related(posts, "self", []string{"go", "web"}, "dev", 10))
	want := []string{"cat-only", "two-tags", "one-tag", "one-tag-b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Related = %v, want %v", got, want)
	}
	if got := Related(posts, "self", []string{"go", "web"}, "dev", 0); len(got) != DefaultRelatedLimit {
		t.Errorf("default limit gave %d posts", len(got))
	}
	if got := slugs(Related(posts, "self", []string{"go", "web"}, "dev", 2)); !reflect.DeepEqual(got, want[:2]) {
		t.Errorf("limit 2 gave %v", got)
	}
	for _, p := range Related(posts, "two-tags", []string{"web", "go"}, "", 10) {
		if p.Slug == "two-tags" {
			t.Error("related posts include the post itself")
		}
	}
	if got := Related(posts, "self", nil, "", 3); len(got) != 0 {
		t.Errorf("nothing shared should give nothing, got %v", slugs(got))
	}
}

func TestAdjacentBounds(t *testing.T) {
	posts := abc()
	n := Adjacent(posts, "a")
	if n.Next != nil || n.Prev == nil || n.Prev.Slug != "b" {
		t.Errorf("Adjacent(first) = %+v", n)
	}
	n = Adjacent(posts, "c")
	if n.Prev != nil || n.Next == nil || n.Next.Slug != "b" {
		t.Errorf("Adjacent(last) = %+v", n)
	}
	n = Adjacent(posts, "unknown")
	if n.Prev != nil || n.Next != nil {
		t.Errorf("Adjacent(unknown) = %+v", n)
	}
	n = Adjacent(posts[:1], "a")
	if n.Prev != nil || n.Next != nil {
		t.Errorf("Adjacent(only) = %+v", n)
	}
	n = Adjacent(posts, "b")
	n.Prev.Title = "changed"
	if posts[2].Title != "C" {
		t.Error("Adjacent shares memory with its input")
	}
}
