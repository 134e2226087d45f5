package site

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/ancientlore/quill/content"
	"github.com/ancientlore/quill/query"
)

// searchEntry is one post in search.json.
type searchEntry struct {
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Excerpt string   `json:"excerpt"`
	Tags    []string `json:"tags"`
	Date    string   `json:"date"`
	URL     string   `json:"url"`
}

// searchIndex returns the JSON search index of posts.
func searchIndex(posts []content.Post) ([]byte, error) {
	entries := make([]searchEntry, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		entries = append(entries, searchEntry{
			Slug:    p.Slug,
			Title:   p.Title,
			Excerpt: p.Excerpt,
			Tags:    tags,
			Date:    p.Date.Format("2006-01-02"),
			URL:     postURL(p.Slug),
		})
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("searchIndex: %w", err)
	}
	return b, nil
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (s *FS) sitemap(snap *content.Snapshot) ([]byte, error) {
	base := s.cfg.URL
	urls := []sitemapURL{
		{Loc: absURL(base, "/")},
		{Loc: absURL(base, "/blog/")},
	}
	for i := range snap.Posts {
		p := &snap.Posts[i]
		urls = append(urls, sitemapURL{
			Loc:     absURL(base, postURL(p.Slug)),
			LastMod: p.Date.Format("2006-01-02"),
		})
	}
	urls = append(urls, sitemapURL{Loc: absURL(base, "/tag/")})
	for _, tc := range query.AllTags(snap.Posts) {
		if tc.Tag != "" {
			urls = append(urls, sitemapURL{Loc: absURL(base, tagURL(tc.Tag))})
		}
	}
	for _, cc := range query.AllCategories(snap.Posts) {
		urls = append(urls, sitemapURL{Loc: absURL(base, categoryURL(cc.Category))})
	}
	return encodeXML(sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Author      string   `xml:"author,omitempty"`
	Categories  []string `xml:"category"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
}

func (s *FS) feed(snap *content.Snapshot) ([]byte, error) {
	base := s.cfg.URL
	posts := snap.Posts
	if len(posts) > s.cfg.FeedSize {
		posts = posts[:s.cfg.FeedSize]
	}
	items := make([]rssItem, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		link := absURL(base, postURL(p.Slug))
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        link,
			Description: describe(p),
			Author:      p.Author,
			Categories:  p.Tags,
			PubDate:     p.Date.Format(time.RFC1123Z),
			GUID:        link,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       s.cfg.Name,
			Link:        absURL(base, "/"),
			Description: s.cfg.Description,
			Items:       items,
		},
	}
	if len(posts) > 0 {
		feed.Channel.LastBuildDate = posts[0].Date.Format(time.RFC1123Z)
	}
	return encodeXML(feed)
}

func encodeXML(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encodeXML: %w", err)
	}
	return buf.Bytes(), nil
}
