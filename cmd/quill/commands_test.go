package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"quill.toml":     "name = \"CLI Blog\"\nrelated = 5\n",
		"posts/a.md":     "---\ntitle: A\ndate: 2024-03-01\ntags: [x, y]\ncategory: notes\n---\n## First\nHello.\n",
		"posts/b.md":     "---\ntitle: B\ndate: 2024-02-01\ntags: [y]\n---\nB body.\n",
		"posts/c.md":     "---\ntitle: C\ndate: 2024-01-01\n---\nC body.\n",
		"posts/draft.md": "---\ntitle: Secret\ndate: 2024-04-01\ndraft: true\ntags: [y]\n---\nNot yet.\n",
	}
	for name, data := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSlugs(t *testing.T) {
	dir := writeSite(t)
	out, err := run(t, "slugs", "--folder", dir)
	if err != nil {
		t.Fatal(err)
	}
	if out != "a\nb\nc\ndraft\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestList(t *testing.T) {
	dir := writeSite(t)
	out, err := run(t, "list", "--folder", dir, "--json")
	if err != nil {
		t.Fatal(err)
	}
	var posts []postSummary
	if err := json.Unmarshal([]byte(out), &posts); err != nil {
		t.Fatal(err)
	}
	if len(posts) != 3 || posts[0].Slug != "a" || posts[2].Slug != "c" {
		t.Errorf("unexpected posts %+v", posts)
	}

	out, err = run(t, "list", "--folder", dir, "--tag", "y", "--drafts")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.Contains(lines[0], "draft") {
		t.Errorf("unexpected listing:\n%s", out)
	}

	out, err = run(t, "list", "--folder", dir, "--category", "none")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No posts found.") {
		t.Errorf("expected an empty listing, got %q", out)
	}
}

func TestTags(t *testing.T) {
	dir := writeSite(t)
	out, err := run(t, "tags", "--folder", dir)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(strings.Fields(out), " ") != "x 1 y 2" {
		t.Errorf("unexpected tags %q", out)
	}
}

func TestSearchAndRelated(t *testing.T) {
	dir := writeSite(t)
	out, err := run(t, "search", "--folder", dir, "--json", "B")
	if err != nil {
		t.Fatal(err)
	}
	var posts []postSummary
	if err := json.Unmarshal([]byte(out), &posts); err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 || posts[0].Slug != "b" {
		t.Errorf("unexpected search results %+v", posts)
	}

	out, err = run(t, "related", "--folder", dir, "--json", "a")
	if err != nil {
		t.Fatal(err)
	}
	posts = nil
	if err := json.Unmarshal([]byte(out), &posts); err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 || posts[0].Slug != "b" {
		t.Errorf("unexpected related posts %+v", posts)
	}

	if _, err := run(t, "related", "--folder", dir, "nope"); err == nil {
		t.Error("expected an error for an unknown post")
	}
}

func TestShow(t *testing.T) {
	dir := writeSite(t)
	out, err := run(t, "show", "--folder", dir, "b")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"B\n", "1 min read", "Previous: c", "Next: a", "B body."} {
		if !strings.Contains(out, want) {
			t.Errorf("show output is missing %q:\n%s", want, out)
		}
	}
	out, err = run(t, "show", "--folder", dir, "--html", "a")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Contents:\n  First") || !strings.Contains(out, `<h2 id="first">First</h2>`) {
		t.Errorf("unexpected show output:\n%s", out)
	}
}

func TestExport(t *testing.T) {
	dir := writeSite(t)
	target := t.TempDir()
	if _, err := run(t, "export", "--folder", dir, target); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"index.html", "blog/a.html", "tag/y/index.html", "feed.xml"} {
		if _, err := os.Stat(filepath.Join(target, filepath.FromSlash(name))); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(target, "blog", "draft.html")); err == nil {
		t.Error("drafts should not be exported")
	}
}
