/*
Package content loads blog posts from a folder of Markdown (".md") and MDX (".mdx") files.

Each file is one post and the file name, minus its extension, is the post's slug. A file may
start with front matter, either YAML delimited by "---" lines or TOML delimited by "+++" lines:

	---
	title: My glorious post
	date: 2024-03-01
	excerpt: A short summary.
	tags: [go, web]
	category: engineering
	---
	# Heading
	This is my [Markdown](https://en.wikipedia.org/wiki/Markdown).

Front matter may include:

	Name        Type               Description
	----------  -----------------  -----------------------------------------
	title       string             Title of the post (default "Untitled")
	date        date or string     Publish date (default: time of loading)
	excerpt     string             Short summary used in listings and search
	coverImage  string             Image shown on cards and in social metadata
	author      string             Author name
	tags        array of strings   Tags for filtering and related posts
	category    string             Single category for related posts
	draft       bool               Hide the post from listings

A Loader caches the sorted collection as an immutable Snapshot that is reloaded only after
it has been invalidated, either explicitly, by a file system watcher, or because the folder
changed since the last load.
*/
package content

import (
	"errors"
	"fmt"
	"html/template"
	"sort"
	"time"
)

// Post is a single blog post.
type Post struct {
	Slug        string        // derived from the file name
	Title       string        // "Untitled" when missing
	Date        time.Time     // publish date
	DateMissing bool          // true when Date was defaulted to the load time
	Excerpt     string        // short summary
	CoverImage  string        // optional image reference
	Author      string        // optional author
	Tags        []string      // optional tags, in front matter order
	Category    string        // optional category
	Draft       bool          // hidden from listings
	Filename    string        // file name within the content folder
	Raw         string        // Markdown body without front matter
	Content     template.HTML // rendered body; only set by GetBySlug
}

// HasTag reports whether the post carries exactly the given tag.
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SortByDate sorts posts newest first. Posts with the same date are ordered
// by slug so that the result is deterministic.
func SortByDate(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].Slug < posts[j].Slug
	})
}

var (
	// ErrNotFound is returned when no file backs a requested slug.
	ErrNotFound = errors.New("post not found")
	// ErrParse is returned when a post's front matter cannot be read.
	ErrParse = errors.New("invalid front matter")
)

// NotFoundError records the slug that could not be found.
type NotFoundError struct {
	Slug string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrNotFound, e.Slug)
}

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ParseError records the file whose front matter is malformed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s in %s: %v", ErrParse, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrParse) true.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// DuplicateSlugError is returned when two files map to the same slug,
// such as "foo.md" and "foo.mdx".
type DuplicateSlugError struct {
	Slug  string
	Files []string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("duplicate slug %q from files %q", e.Slug, e.Files)
}
