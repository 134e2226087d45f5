package site

import (
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/ancientlore/quill/content"
	"github.com/ancientlore/quill/query"
)

// layout lists the virtual pages and folders for one snapshot of the posts.
type layout struct {
	snap  *content.Snapshot
	pages map[string]func() ([]byte, error)
	dirs  map[string][]string // folder to virtual children, by name
}

// rootPages are the pages at the root of every site, in addition to the folders.
var rootPages = []string{"index.html", "search.json", "sitemap.xml", "feed.xml", "404.html", "500.html"}

func (s *FS) newLayout(snap *content.Snapshot) *layout {
	lay := &layout{
		snap:  snap,
		pages: make(map[string]func() ([]byte, error)),
		dirs:  make(map[string][]string),
	}
	lay.dirs["."] = append([]string{"blog", "category", "tag"}, rootPages...)

	lay.pages["index.html"] = func() ([]byte, error) { return s.homePage(snap) }
	lay.pages["search.json"] = func() ([]byte, error) { return searchIndex(snap.Posts) }
	lay.pages["sitemap.xml"] = func() ([]byte, error) { return s.sitemap(snap) }
	lay.pages["feed.xml"] = func() ([]byte, error) { return s.feed(snap) }
	lay.pages["404.html"] = func() ([]byte, error) { return s.errorPage("notfound", "Not Found") }
	lay.pages["500.html"] = func() ([]byte, error) { return s.errorPage("error", "Error") }

	blog := []string{"index.html"}
	lay.pages["blog/index.html"] = func() ([]byte, error) { return s.listPage("All Posts", snap.Posts) }
	for i := range snap.Posts {
		slug := snap.Posts[i].Slug
		blog = append(blog, slug+".html")
		lay.pages["blog/"+slug+".html"] = func() ([]byte, error) { return s.postPage(snap, slug) }
	}
	lay.dirs["blog"] = blog

	tags := []string{"index.html"}
	lay.pages["tag/index.html"] = func() ([]byte, error) { return s.tagsPage(snap) }
	for _, tc := range query.AllTags(snap.Posts) {
		tag := tc.Tag
		if tag == "" {
			continue
		}
		dir := "tag/" + fileName(tag)
		tags = append(tags, fileName(tag))
		lay.dirs[dir] = []string{"index.html"}
		lay.pages[dir+"/index.html"] = func() ([]byte, error) { return s.tagPage(snap, tag) }
	}
	lay.dirs["tag"] = tags

	categories := []string{"index.html"}
	lay.pages["category/index.html"] = func() ([]byte, error) { return s.categoriesPage(snap) }
	for _, cc := range query.AllCategories(snap.Posts) {
		category := cc.Category
		dir := "category/" + fileName(category)
		categories = append(categories, fileName(category))
		lay.dirs[dir] = []string{"index.html"}
		lay.pages[dir+"/index.html"] = func() ([]byte, error) { return s.categoryPage(snap, category) }
	}
	lay.dirs["category"] = categories

	return lay
}

// fileName returns the folder name used for a tag or category. Values that
// work as a single path element are used as-is, others are percent-encoded.
// A value containing "%" is always encoded, so encoded names never collide
// with plain ones.
func fileName(s string) string {
	if s != "" && !strings.HasPrefix(s, ".") && !strings.ContainsAny(s, `/\%`) && utf8.ValidString(s) {
		return s
	}
	e := url.PathEscape(s)
	if strings.HasPrefix(e, ".") {
		e = "%2E" + e[1:]
	}
	return e
}

func postURL(slug string) string {
	return "/" + path.Join("blog", slug+".html")
}

func tagURL(tag string) string {
	return "/tag/" + query.EncodeTag(fileName(tag)) + "/"
}

func categoryURL(category string) string {
	return "/category/" + url.PathEscape(fileName(category)) + "/"
}
