package content

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"io/fs"
	"log"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// extensions are the recognized post extensions, in lookup order.
var extensions = []string{".mdx", ".md"}

// Loader reads posts from a folder. It is safe for concurrent use.
type Loader struct {
	// IncludeDrafts makes drafts part of listings and snapshots.
	IncludeDrafts bool
	// OnReload, if set, is called after a snapshot has been rebuilt.
	OnReload func(*Snapshot)

	fsys fs.FS
	dir  string // folder on disk, if any
	now  func() time.Time

	mu       sync.RWMutex
	snap     *Snapshot
	stale    bool
	seen     fingerprint
	watching bool

	renders *renderCache
}

// New returns a Loader for the posts in the folder dir.
func New(dir string) *Loader {
	l := NewFS(os.DirFS(dir))
	l.dir = dir
	return l
}

// NewFS returns a Loader for the posts at the root of fsys.
func NewFS(fsys fs.FS) *Loader {
	return &Loader{
		fsys:    fsys,
		now:     time.Now,
		renders: newRenderCache(defaultRenderCacheBytes),
	}
}

// FS returns the file system the loader reads from.
func (l *Loader) FS() fs.FS {
	return l.fsys
}

// isPostFile reports whether name is a visible Markdown or MDX file.
func isPostFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := path.Ext(name)
	return ext == ".md" || ext == ".mdx"
}

// slugFor strips the post extension from a file name.
func slugFor(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

// validSlug rejects slugs that would escape the content folder.
func validSlug(slug string) bool {
	return slug != "" && !strings.HasPrefix(slug, ".") && !strings.ContainsAny(slug, `/\`) && fs.ValidPath(slug)
}

// postFiles returns the post file names keyed by slug.
func (l *Loader) postFiles() (map[string]string, []fs.DirEntry, error) {
	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("postFiles: %w", err)
	}
	files := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isPostFile(entry.Name()) {
			continue
		}
		slug := slugFor(entry.Name())
		if prev, ok := files[slug]; ok {
			names := []string{prev, entry.Name()}
			sort.Strings(names)
			return nil, nil, &DuplicateSlugError{Slug: slug, Files: names}
		}
		files[slug] = entry.Name()
	}
	return files, entries, nil
}

// ListSlugs returns the slug of every post file, sorted.
func (l *Loader) ListSlugs() ([]string, error) {
	files, _, err := l.postFiles()
	if err != nil {
		return nil, err
	}
	slugs := make([]string, 0, len(files))
	for slug := range files {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs, nil
}

// ListAllMeta reads the front matter of every post and returns the posts
// newest first. The rendered Content is left empty.
func (l *Loader) ListAllMeta() ([]Post, error) {
	files, _, err := l.postFiles()
	if err != nil {
		return nil, err
	}
	// a single timestamp keeps undated posts in slug order
	now := l.now()
	posts := make([]Post, 0, len(files))
	for _, name := range files {
		b, err := fs.ReadFile(l.fsys, name)
		if err != nil {
			return nil, &ParseError{Path: name, Err: err}
		}
		p, err := parsePost(name, b, now)
		if err != nil {
			return nil, err
		}
		if p.DateMissing {
			log.Printf("ListAllMeta: %s has no date, using load time", name)
		}
		if p.Draft && !l.IncludeDrafts {
			continue
		}
		posts = append(posts, p)
	}
	SortByDate(posts)
	return posts, nil
}

// GetBySlug reads a single post, including drafts, and renders its body to HTML.
func (l *Loader) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	if !validSlug(slug) {
		return nil, &NotFoundError{Slug: slug}
	}
	var (
		name string
		fi   fs.FileInfo
		err  error
	)
	for _, ext := range extensions {
		fi, err = fs.Stat(l.fsys, slug+ext)
		if err == nil && !fi.IsDir() {
			name = slug + ext
			break
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("GetBySlug: %w", err)
		}
	}
	if name == "" {
		return nil, &NotFoundError{Slug: slug}
	}
	b, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Slug: slug}
		}
		return nil, &ParseError{Path: name, Err: err}
	}
	p, err := parsePost(name, b, l.now())
	if err != nil {
		return nil, err
	}
	p.Content, err = l.renders.render(ctx, name, fi, []byte(p.Raw))
	if err != nil {
		return nil, fmt.Errorf("GetBySlug: %w", err)
	}
	return &p, nil
}

// Snapshot is an immutable, date sorted view of the posts.
type Snapshot struct {
	Posts  []Post
	Loaded time.Time
}

// Find returns the post with the given slug, or nil.
func (s *Snapshot) Find(slug string) *Post {
	for i := range s.Posts {
		if s.Posts[i].Slug == slug {
			return &s.Posts[i]
		}
	}
	return nil
}

// fingerprint summarizes a folder listing so that changes can be noticed
// without reading every file. Every post's name, size, and modification time
// go into the hash.
type fingerprint struct {
	count int
	hash  uint64
}

func (l *Loader) fingerprint(entries []fs.DirEntry) fingerprint {
	var (
		fp fingerprint
		h  = fnv.New64a()
		b  [8]byte
	)
	for _, entry := range entries {
		if entry.IsDir() || !isPostFile(entry.Name()) {
			continue
		}
		fp.count++
		io.WriteString(h, entry.Name())
		h.Write([]byte{0})
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		binary.LittleEndian.PutUint64(b[:], uint64(fi.Size()))
		h.Write(b[:])
		binary.LittleEndian.PutUint64(b[:], uint64(fi.ModTime().UnixNano()))
		h.Write(b[:])
	}
	fp.hash = h.Sum64()
	return fp
}

// Invalidate marks the snapshot stale so that the next call to Snapshot reloads it.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.stale = true
	l.mu.Unlock()
}

// Snapshot returns the current posts, loading them if needed. Unless a watcher
// is running, the folder listing is checked on every call and a change in file
// count, size, or modification time triggers a reload.
func (l *Loader) Snapshot() (*Snapshot, error) {
	l.mu.RLock()
	snap, stale, watching, seen := l.snap, l.stale, l.watching, l.seen
	l.mu.RUnlock()

	if snap != nil && !stale {
		if watching {
			return snap, nil
		}
		_, entries, err := l.postFiles()
		if err != nil {
			return nil, err
		}
		if l.fingerprint(entries) == seen {
			return snap, nil
		}
	}
	return l.reload()
}

// reload rebuilds the snapshot.
func (l *Loader) reload() (*Snapshot, error) {
	l.mu.Lock()
	_, entries, err := l.postFiles()
	if err != nil {
		l.mu.Unlock()
		return nil, err
	}
	fp := l.fingerprint(entries)
	if l.snap != nil && !l.stale && fp == l.seen {
		// someone else reloaded while we waited
		snap := l.snap
		l.mu.Unlock()
		return snap, nil
	}
	posts, err := l.ListAllMeta()
	if err != nil {
		l.mu.Unlock()
		return nil, err
	}
	snap := &Snapshot{Posts: posts, Loaded: l.now()}
	l.snap = snap
	l.stale = false
	l.seen = fp
	l.mu.Unlock()

	if l.OnReload != nil {
		l.OnReload(snap)
	}
	return snap, nil
}
