// Package query answers listing, tag, category, search, related, and navigation
// questions over a loaded collection of posts. Every function is pure: the input
// slice is never modified and results share no backing array with it.
package query

import (
	"net/url"
	"slices"
	"sort"

	"github.com/ancientlore/quill/content"
)

// DefaultRelatedLimit is the number of related posts returned when no limit is given.
const DefaultRelatedLimit = 3

// SortByDate returns a copy of posts ordered newest first, ties broken by slug.
func SortByDate(posts []content.Post) []content.Post {
	r := make([]content.Post, len(posts))
	copy(r, posts)
	content.SortByDate(r)
	return r
}

// TagCount is a tag and the number of posts that carry it.
type TagCount struct {
	Tag   string
	Count int
}

// AllTags counts how many posts use each tag. Tags are compared exactly and
// the result is sorted by tag. A tag repeated within a post counts once.
func AllTags(posts []content.Post) []TagCount {
	counts := make(map[string]int)
	for i := range posts {
		tags := posts[i].Tags
		for j, t := range tags {
			if !slices.Contains(tags[:j], t) {
				counts[t]++
			}
		}
	}
	r := make([]TagCount, 0, len(counts))
	for t, c := range counts {
		r = append(r, TagCount{Tag: t, Count: c})
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Tag < r[j].Tag })
	return r
}

// ByTag returns the posts carrying tag, keeping their order.
func ByTag(posts []content.Post, tag string) []content.Post {
	var r []content.Post
	for i := range posts {
		if posts[i].HasTag(tag) {
			r = append(r, posts[i])
		}
	}
	return r
}

// DecodeTag converts a tag taken from a URL path back into the tag itself.
func DecodeTag(raw string) (string, error) {
	return url.PathUnescape(raw)
}

// EncodeTag escapes a tag for use as a URL path element.
func EncodeTag(tag string) string {
	return url.PathEscape(tag)
}

// CategoryCount is a category and the number of posts in it.
type CategoryCount struct {
	Category string
	Count    int
}

// AllCategories counts the posts in each category, sorted by category.
// Posts without a category are not counted.
func AllCategories(posts []content.Post) []CategoryCount {
	counts := make(map[string]int)
	for i := range posts {
		if c := posts[i].Category; c != "" {
			counts[c]++
		}
	}
	r := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		r = append(r, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Category < r[j].Category })
	return r
}

// ByCategory returns the posts in category, keeping their order.
func ByCategory(posts []content.Post, category string) []content.Post {
	var r []content.Post
	for i := range posts {
		if category != "" && posts[i].Category == category {
			r = append(r, posts[i])
		}
	}
	return r
}

// Related scores every post other than slug: 10 points for sharing the
// category and 5 points per shared tag. Posts scoring zero are dropped, and
// the best limit posts are returned. Equal scores keep the input order.
func Related(posts []content.Post, slug string, tags []string, category string, limit int) []content.Post {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	type scored struct {
		post  content.Post
		score int
	}
	var candidates []scored
	for i := range posts {
		p := &posts[i]
		if p.Slug == slug {
			continue
		}
		score := 0
		if category != "" && p.Category == category {
			score += 10
		}
		for _, t := range p.Tags {
			if contains(tags, t) {
				score += 5
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{post: *p, score: score})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	r := make([]content.Post, len(candidates))
	for i := range candidates {
		r[i] = candidates[i].post
	}
	return r
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// Neighbors are the posts on either side of a post in date order.
type Neighbors struct {
	Prev *content.Post // older
	Next *content.Post // newer
}

// Adjacent finds the older and newer neighbors of slug in a newest-first
// collection. Both are nil when slug is unknown.
func Adjacent(posts []content.Post, slug string) Neighbors {
	var n Neighbors
	for i := range posts {
		if posts[i].Slug != slug {
			continue
		}
		if i < len(posts)-1 {
			p := posts[i+1]
			n.Prev = &p
		}
		if i > 0 {
			p := posts[i-1]
			n.Next = &p
		}
		break
	}
	return n
}
