/*
Package site presents a blog as a "virtual" fs.FS that can be served with http.FileServer
or written out as static files. Pages are rendered from the posts of a content.Loader using
HTML templates; everything else is provided as-is from the site folder.

A special file "quill.toml" at the root holds settings, see Config. The file is hidden from view,
as are the "template" folder, the posts folder, and any file or folder starting with ".".

Virtual Files

	index.html                  the latest posts and the tag cloud
	blog/index.html             every post, newest first
	blog/<slug>.html            a post with reading time, table of contents, related posts and neighbors
	tag/index.html              every tag with its post count
	tag/<tag>/index.html        the posts carrying a tag
	category/index.html         every category with its post count
	category/<name>/index.html  the posts in a category
	search.json                 an index of every post for searching in the browser
	sitemap.xml                 the site map
	feed.xml                    an RSS feed of the latest posts
	404.html, 500.html          error pages

Virtual files take precedence over files of the same name in the site folder. Tags and
categories that are not usable as a single path element are percent-encoded in file names.

Templates

Pages use standard Go templates from the html/template package. Built-in templates are always
loaded; templates in the "template" folder (files ending in ".html") replace them by name.
The page templates are "home", "list", "post", "tags", "search", "notfound" and "error".
Templates can use these helper functions:

	posturl(slug string) string         URL path of a post
	tagurl(tag string) string           URL path of a tag page
	categoryurl(name string) string     URL path of a category page
	absurl(p string) string             absolute URL using the configured site URL
	date(t time.Time) string            date formatted as "January 2, 2006"
	isodate(t time.Time) string         date formatted as "2006-01-02"
	readingtime(p content.Post) int     minutes needed to read a post
	join(s []string, sep string) string the same as strings.Join
	now() time.Time                     current time
*/
package site

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/ancientlore/quill/content"
)

// FS provides a virtual view of a blog suitable for serving on the web.
type FS struct {
	fs       fs.FS
	posts    *content.Loader
	cfg      Config
	tpl      *template.Template
	tplMutex sync.RWMutex

	mu     sync.Mutex
	layout *layout
}

// New returns a new FS that renders the posts of loader, serving other files from fsys.
// If cfg is nil, configuration is read from quill.toml in fsys.
func New(fsys fs.FS, loader *content.Loader, cfg *Config) (*FS, error) {
	if cfg == nil {
		var err error
		cfg, err = ReadConfig(fsys)
		if err != nil {
			return nil, err
		}
	}
	s := FS{
		fs:    fsys,
		posts: loader,
		cfg:   *cfg,
	}
	s.cfg.fill()
	if err := s.loadTemplates(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Config returns the site configuration.
func (s *FS) Config() *Config {
	return &s.cfg
}

// Open opens the named file.
//
// When Open returns an error, it is of type *fs.PathError with the Op field
// set to "open", the Path field set to name, and the Err field describing the problem.
func (s *FS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name != "." && s.isHidden(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	lay, err := s.current()
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	if render, ok := lay.pages[name]; ok {
		b, err := render()
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		return newRenderFile(path.Base(name), b, lay.snap.Loaded), nil
	}
	if children, ok := lay.dirs[name]; ok {
		return s.openDir(name, lay, children)
	}

	f, err := s.fs.Open(name)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	// Directories need to be virtual so that hidden entries stay hidden.
	if fi.IsDir() {
		f.Close()
		return s.openDir(name, lay, nil)
	}
	return f, nil
}

// openDir lists a folder, merging the virtual children with the matching
// folder in the site, if there is one.
func (s *FS) openDir(name string, lay *layout, virtual []string) (fs.File, error) {
	info := fileInfo{
		name:    path.Base(name),
		mode:    fs.ModeDir | 0o555,
		modTime: lay.snap.Loaded,
	}
	seen := make(map[string]bool)
	var entries []fs.DirEntry
	for _, child := range virtual {
		p := path.Join(name, child)
		_, isDir := lay.dirs[p]
		entries = append(entries, dirEntry{fsys: s, path: p, name: child, dir: isDir})
		seen[child] = true
	}
	// Only the root mixes in real files; the other virtual folders are owned by the site.
	if virtual == nil || name == "." {
		real, err := fs.ReadDir(s.fs, name)
		if err != nil && !(virtual != nil && errors.Is(err, fs.ErrNotExist)) {
			return nil, err
		}
		for _, e := range real {
			p := path.Join(name, e.Name())
			if seen[e.Name()] || s.isHidden(p) {
				continue
			}
			entries = append(entries, e)
		}
		if fi, err := fs.Stat(s.fs, name); err == nil {
			info.modTime = fi.ModTime()
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return &virtualDir{info: info, path: name, entries: entries}, nil
}

// isHidden reports whether name is a special file that should not be shown.
func (s *FS) isHidden(name string) bool {
	if name == ConfigFile || name == "template" || strings.HasPrefix(name, "template/") {
		return true
	}
	if posts := s.cfg.postsFolder(); posts != "" && (name == posts || strings.HasPrefix(name, posts+"/")) {
		return true
	}
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// current returns the layout for the current snapshot of the posts,
// building it when the posts have changed.
func (s *FS) current() (*layout, error) {
	snap, err := s.posts.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("current: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.layout == nil || s.layout.snap != snap {
		s.layout = s.newLayout(snap)
	}
	return s.layout, nil
}
