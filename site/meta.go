package site

import (
	"encoding/json"
	"html/template"
	"log"
	"net/url"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	stripmd "github.com/writeas/go-strip-markdown/v2"

	"github.com/ancientlore/quill/content"
)

// descriptionLength is the longest description derived from a post body, in characters.
const descriptionLength = 160

// absURL joins base and the escaped URL path p, keeping a trailing slash on p.
func absURL(base, p string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	ref, err := url.Parse(p)
	if err != nil {
		return base
	}
	joined := path.Join("/", u.Path, ref.Path)
	if strings.HasSuffix(ref.Path, "/") && !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	u.Path = joined
	u.RawPath = ""
	return u.String()
}

// describe returns the excerpt of p, or the start of its body as plain text.
func describe(p *content.Post) string {
	if p.Excerpt != "" {
		return p.Excerpt
	}
	text := strings.Join(strings.Fields(stripmd.Strip(p.Raw)), " ")
	if utf8.RuneCountInString(text) <= descriptionLength {
		return text
	}
	r := []rune(text)[:descriptionLength]
	if i := strings.LastIndex(string(r), " "); i > 0 {
		return string(r)[:i] + "…"
	}
	return string(r) + "…"
}

type ldPerson struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type ldArticle struct {
	Context       string    `json:"@context"`
	Type          string    `json:"@type"`
	Headline      string    `json:"headline"`
	Description   string    `json:"description,omitempty"`
	Image         string    `json:"image,omitempty"`
	DatePublished string    `json:"datePublished"`
	Author        *ldPerson `json:"author,omitempty"`
	Keywords      string    `json:"keywords,omitempty"`
	URL           string    `json:"url"`
}

type ldWebsite struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

// articleLD returns the JSON-LD structured data for a post.
func articleLD(cfg *Config, p *content.Post) template.JS {
	a := ldArticle{
		Context:       "https://schema.org",
		Type:          "BlogPosting",
		Headline:      p.Title,
		Description:   describe(p),
		DatePublished: p.Date.Format(time.RFC3339),
		Keywords:      strings.Join(p.Tags, ", "),
		URL:           absURL(cfg.URL, postURL(p.Slug)),
	}
	if p.CoverImage != "" {
		a.Image = absURL(cfg.URL, p.CoverImage)
		if u, err := url.Parse(p.CoverImage); err == nil && u.IsAbs() {
			a.Image = p.CoverImage
		}
	}
	author := p.Author
	if author == "" {
		author = cfg.Author
	}
	if author != "" {
		a.Author = &ldPerson{Type: "Person", Name: author}
	}
	return marshalLD(a)
}

// websiteLD returns the JSON-LD structured data for the site.
func websiteLD(cfg *Config) template.JS {
	return marshalLD(ldWebsite{
		Context:     "https://schema.org",
		Type:        "WebSite",
		Name:        cfg.Name,
		Description: cfg.Description,
		URL:         absURL(cfg.URL, "/"),
	})
}

func marshalLD(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("marshalLD: %s", err)
		return ""
	}
	return template.JS(b)
}
