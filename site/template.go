package site

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"time"

	"github.com/ancientlore/quill/content"
	"github.com/ancientlore/quill/query"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

// pageData is what is passed to page templates.
type pageData struct {
	Site        *Config
	Title       string
	Description string
	Canonical   string                // absolute URL of the page
	Posts       []content.Post        // posts listed on the page
	Tags        []query.TagCount      // tag cloud
	Categories  []query.CategoryCount // category list
	Tag         string
	Category    string
	Post        *content.Post
	Sections    []content.Section // table of contents
	ReadingTime int
	Related     []content.Post
	Neighbors   query.Neighbors
	JSONLD      template.JS
	Query       string
	Searched    bool // a search was requested, even if nothing matched
}

// getTemplates returns the parsed templates.
func (s *FS) getTemplates() *template.Template {
	s.tplMutex.RLock()
	defer s.tplMutex.RUnlock()
	return s.tpl
}

func (s *FS) funcMap() template.FuncMap {
	return template.FuncMap{
		"posturl":     postURL,
		"tagurl":      tagURL,
		"categoryurl": categoryURL,
		"absurl":      func(p string) string { return absURL(s.cfg.URL, p) },
		"date":        func(t time.Time) string { return t.Format("January 2, 2006") },
		"isodate":     func(t time.Time) string { return t.Format("2006-01-02") },
		"readingtime": func(p content.Post) int { return query.ReadingTime(p.Raw, s.cfg.WordsPerMinute) },
		"join":        strings.Join,
		"now":         time.Now,
	}
}

// loadTemplates parses the built-in templates and then any templates in the
// "template" folder of the site, which replace built-in ones of the same name.
func (s *FS) loadTemplates() error {
	tpl, err := template.New("quill").Funcs(s.funcMap()).ParseFS(defaultTemplates, "templates/*.html")
	if err != nil {
		return fmt.Errorf("loadTemplates: %w", err)
	}
	fi, err := fs.Stat(s.fs, "template")
	switch {
	case errors.Is(err, fs.ErrNotExist) || (err == nil && !fi.IsDir()):
	case err != nil:
		return fmt.Errorf("loadTemplates: %w", err)
	default:
		matches, err := fs.Glob(s.fs, "template/*.html")
		if err != nil {
			return fmt.Errorf("loadTemplates: %w", err)
		}
		if len(matches) > 0 {
			tpl, err = tpl.ParseFS(s.fs, "template/*.html")
			if err != nil {
				return fmt.Errorf("loadTemplates: %w", err)
			}
		}
	}
	s.tplMutex.Lock()
	defer s.tplMutex.Unlock()
	s.tpl = tpl
	return nil
}

// ReloadTemplates parses the templates again, keeping the current ones on failure.
func (s *FS) ReloadTemplates() error {
	return s.loadTemplates()
}

// execute runs the named template into a buffer.
func (s *FS) execute(name string, data *pageData) ([]byte, error) {
	var wtr bytes.Buffer
	err := s.getTemplates().ExecuteTemplate(&wtr, name, data)
	if err != nil {
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}
	return wtr.Bytes(), nil
}
