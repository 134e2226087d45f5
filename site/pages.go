package site

import (
	"context"
	"fmt"
	"io"

	"github.com/ancientlore/quill/content"
	"github.com/ancientlore/quill/query"
)

// data returns the page data every page starts from.
func (s *FS) data(title, urlPath string) *pageData {
	d := &pageData{
		Site:        &s.cfg,
		Title:       title,
		Description: s.cfg.Description,
		Canonical:   absURL(s.cfg.URL, urlPath),
	}
	return d
}

func (s *FS) homePage(snap *content.Snapshot) ([]byte, error) {
	d := s.data(s.cfg.Name, "/")
	d.Posts = snap.Posts
	if len(d.Posts) > s.cfg.HomeSize {
		d.Posts = d.Posts[:s.cfg.HomeSize]
	}
	d.Tags = query.AllTags(snap.Posts)
	d.JSONLD = websiteLD(&s.cfg)
	return s.execute("home", d)
}

func (s *FS) listPage(title string, posts []content.Post) ([]byte, error) {
	d := s.data(title, "/blog/")
	d.Posts = posts
	return s.execute("list", d)
}

func (s *FS) tagPage(snap *content.Snapshot, tag string) ([]byte, error) {
	d := s.data("Posts tagged "+tag, tagURL(tag))
	d.Tag = tag
	d.Posts = query.ByTag(snap.Posts, tag)
	return s.execute("list", d)
}

func (s *FS) categoryPage(snap *content.Snapshot, category string) ([]byte, error) {
	d := s.data(category, categoryURL(category))
	d.Category = category
	d.Posts = query.ByCategory(snap.Posts, category)
	return s.execute("list", d)
}

func (s *FS) tagsPage(snap *content.Snapshot) ([]byte, error) {
	d := s.data("Tags", "/tag/")
	d.Tags = query.AllTags(snap.Posts)
	return s.execute("tags", d)
}

func (s *FS) categoriesPage(snap *content.Snapshot) ([]byte, error) {
	d := s.data("Categories", "/category/")
	d.Categories = query.AllCategories(snap.Posts)
	return s.execute("tags", d)
}

func (s *FS) postPage(snap *content.Snapshot, slug string) ([]byte, error) {
	p, err := s.posts.GetBySlug(context.Background(), slug)
	if err != nil {
		return nil, fmt.Errorf("postPage: %w", err)
	}
	d := s.data(p.Title, postURL(p.Slug))
	d.Post = p
	d.Description = describe(p)
	d.Sections = content.GroupHeadings(content.Headings(p.Raw))
	d.ReadingTime = query.ReadingTime(p.Raw, s.cfg.WordsPerMinute)
	d.Related = query.Related(snap.Posts, p.Slug, p.Tags, p.Category, s.cfg.RelatedLimit)
	d.Neighbors = query.Adjacent(snap.Posts, p.Slug)
	d.JSONLD = articleLD(&s.cfg, p)
	return s.execute("post", d)
}

func (s *FS) errorPage(name, title string) ([]byte, error) {
	return s.execute(name, s.data(title, "/"))
}

// Search returns the posts matching q in the current snapshot.
func (s *FS) Search(q string) ([]content.Post, error) {
	snap, err := s.posts.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	return query.Search(snap.Posts, q), nil
}

// RenderSearch writes the search page for q and its results to w.
func (s *FS) RenderSearch(w io.Writer, q string, results []content.Post) error {
	d := s.data("Search", "/search")
	d.Query = q
	d.Searched = results != nil
	d.Posts = results
	b, err := s.execute("search", d)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// WriteSearchJSON writes results to w in the format of search.json.
func (s *FS) WriteSearchJSON(w io.Writer, results []content.Post) error {
	b, err := searchIndex(results)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
