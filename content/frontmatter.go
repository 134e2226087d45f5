package content

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/araddon/dateparse"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// frontMatter holds data scraped from the top of a post.
type frontMatter struct {
	Title      string   `yaml:"title" toml:"title"`
	Date       any      `yaml:"date" toml:"date"`
	Excerpt    string   `yaml:"excerpt" toml:"excerpt"`
	CoverImage string   `yaml:"coverImage" toml:"coverImage"`
	Author     string   `yaml:"author" toml:"author"`
	Tags       []string `yaml:"tags" toml:"tags"`
	Category   string   `yaml:"category" toml:"category"`
	Draft      bool     `yaml:"draft" toml:"draft"`
}

// formats are the front matter delimiters we understand.
var formats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
}

// openingDelimiter returns the delimiter that opens the front matter,
// or "" if the file has none.
func openingDelimiter(b []byte) string {
	line, _, _ := bytes.Cut(bytes.TrimLeft(b, " \t\r\n"), []byte("\n"))
	s := strings.TrimSpace(string(line))
	for _, f := range formats {
		if s == f.Start {
			return f.Start
		}
	}
	return ""
}

// hasClosingDelimiter reports whether the front matter opened by delim is closed.
func hasClosingDelimiter(b []byte, delim string) bool {
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 64*1024), len(b)+1)
	sc.Scan() // opening line
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == delim {
			return true
		}
	}
	return false
}

// extractFrontMatter splits the front matter and Markdown body and
// unmarshals the front matter into fm. A file without front matter is
// returned as-is.
func extractFrontMatter(b []byte, fm *frontMatter) ([]byte, error) {
	delim := openingDelimiter(b)
	if delim == "" {
		return bytes.TrimSpace(b), nil
	}
	b = bytes.TrimLeft(b, " \t\r\n")
	if !hasClosingDelimiter(b, delim) {
		return nil, fmt.Errorf("unterminated %q block", delim)
	}
	body, err := frontmatter.MustParse(bytes.NewReader(b), fm, formats...)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(body), nil
}

// parseDate converts the different shapes a front matter date can take.
func parseDate(v any) (time.Time, bool, error) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		return d, true, nil
	case toml.LocalDate:
		return d.AsTime(time.UTC), true, nil
	case toml.LocalDateTime:
		return d.AsTime(time.UTC), true, nil
	case string:
		if strings.TrimSpace(d) == "" {
			return time.Time{}, false, nil
		}
		t, err := dateparse.ParseIn(strings.TrimSpace(d), time.UTC)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("date %q: %w", d, err)
		}
		return t, true, nil
	case int, int64, uint64:
		t, err := dateparse.ParseIn(fmt.Sprint(d), time.UTC)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("date %v: %w", d, err)
		}
		return t, true, nil
	}
	return time.Time{}, false, errors.New("date has an unsupported type")
}

// parsePost reads front matter and body from b. now is used for a missing date.
func parsePost(name string, b []byte, now time.Time) (Post, error) {
	var fm frontMatter
	body, err := extractFrontMatter(b, &fm)
	if err != nil {
		return Post{}, &ParseError{Path: name, Err: err}
	}
	date, ok, err := parseDate(fm.Date)
	if err != nil {
		return Post{}, &ParseError{Path: name, Err: err}
	}
	p := Post{
		Slug:       slugFor(name),
		Title:      strings.TrimSpace(fm.Title),
		Date:       date,
		Excerpt:    fm.Excerpt,
		CoverImage: fm.CoverImage,
		Author:     fm.Author,
		Tags:       fm.Tags,
		Category:   fm.Category,
		Draft:      fm.Draft,
		Filename:   name,
		Raw:        string(body),
	}
	if p.Title == "" {
		p.Title = "Untitled"
	}
	if !ok {
		p.Date = now
		p.DateMissing = true
	}
	return p, nil
}
