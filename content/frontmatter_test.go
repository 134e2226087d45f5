package content

import (
	"errors"
	"testing"
	"time"
)

func TestExtractFrontMatter(t *testing.T) {
	var tests = []struct {
		in    string
		title string
		body  string
		fail  bool
	}{
		{in: ``, body: ``},
		{in: "# Just a body", body: "# Just a body"},
		{in: "---\ntitle: Hello\n---\nbody text", title: "Hello", body: "body text"},
		{in: "\n\n---\ntitle: Spaced\n---\n\nbody", title: "Spaced", body: "body"},
		{in: "+++\ntitle = \"Toml\"\n+++\nhello", title: "Toml", body: "hello"},
		{in: "---\ntitle: Unclosed\nbody", fail: true},
		{in: "+++\ntitle = \"Unclosed\"\n", fail: true},
		{in: "---\ntitle: [oops\n---\nbody", fail: true},
		{in: "---\ntags: not-a-list\n---\nbody", fail: true},
	}
	for i, tc := range tests {
		var fm frontMatter
		body, err := extractFrontMatter([]byte(tc.in), &fm)
		if tc.fail {
			if err == nil {
				t.Errorf("%d: expected an error for %q", i, tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%d: unexpected error: %v", i, err)
			continue
		}
		if fm.Title != tc.title || string(body) != tc.body {
			t.Errorf("%d: expected %q/%q but got %q/%q", i, tc.title, tc.body, fm.Title, body)
		}
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, v := range []any{"2024-03-01", " 2024-03-01 ", want, "March 1, 2024"} {
		got, ok, err := parseDate(v)
		if err != nil || !ok {
			t.Errorf("parseDate(%v): ok=%v err=%v", v, ok, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("parseDate(%v) = %v, want %v", v, got, want)
		}
	}
	if _, ok, err := parseDate(nil); ok || err != nil {
		t.Errorf("nil date should be missing without error")
	}
	if _, ok, err := parseDate(""); ok || err != nil {
		t.Errorf("empty date should be missing without error")
	}
	if _, _, err := parseDate("not a date at all"); err == nil {
		t.Errorf("expected an error for a bad date")
	}
	if _, _, err := parseDate([]string{"x"}); err == nil {
		t.Errorf("expected an error for a list date")
	}
}

func TestParsePostDefaults(t *testing.T) {
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	p, err := parsePost("bare.md", []byte("Only a body."), now)
	if err != nil {
		t.Fatal(err)
	}
	if p.Slug != "bare" || p.Title != "Untitled" || p.Excerpt != "" || p.Tags != nil {
		t.Errorf("unexpected defaults: %+v", p)
	}
	if !p.DateMissing || !p.Date.Equal(now) {
		t.Errorf("expected load time for missing date, got %v (missing=%v)", p.Date, p.DateMissing)
	}
	if p.Raw != "Only a body." {
		t.Errorf("unexpected body %q", p.Raw)
	}
}

func TestParsePostTOML(t *testing.T) {
	src := "+++\ntitle = \"T\"\ndate = 2024-02-01\ntags = [\"a\", \"b\"]\ncategory = \"c\"\ncoverImage = \"/img.png\"\nauthor = \"me\"\n+++\nBody"
	p, err := parsePost("t.md", []byte(src), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !p.Date.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", p.Date)
	}
	if len(p.Tags) != 2 || p.Category != "c" || p.CoverImage != "/img.png" || p.Author != "me" {
		t.Errorf("unexpected post %+v", p)
	}
}

func TestParsePostError(t *testing.T) {
	_, err := parsePost("broken.md", []byte("---\ntitle: x\n"), time.Now())
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a ParseError, got %v", err)
	}
	if pe.Path != "broken.md" {
		t.Errorf("expected path broken.md, got %q", pe.Path)
	}
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected errors.Is(err, ErrParse)")
	}
}
