package site

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"time"
)

// fileInfo describes a virtual file or folder.
type fileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return fi.size }
func (fi fileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi fileInfo) ModTime() time.Time { return fi.modTime }
func (fi fileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi fileInfo) Sys() any           { return nil }

// renderFile is a rendered page held in memory.
type renderFile struct {
	info   fileInfo
	reader *bytes.Reader
}

func newRenderFile(name string, b []byte, modTime time.Time) *renderFile {
	return &renderFile{
		info: fileInfo{
			name:    name,
			size:    int64(len(b)),
			mode:    0o444,
			modTime: modTime,
		},
		reader: bytes.NewReader(b),
	}
}

// Stat returns a FileInfo describing the file.
func (f *renderFile) Stat() (fs.FileInfo, error) {
	return f.info, nil
}

// Read reads up to len(b) bytes from the File. It returns the number of bytes read
// and any error encountered. At end of file, Read returns 0, io.EOF.
func (f *renderFile) Read(b []byte) (int, error) {
	return f.reader.Read(b)
}

// Seek sets the offset for the next Read, interpreted according to whence.
func (f *renderFile) Seek(offset int64, whence int) (int64, error) {
	return f.reader.Seek(offset, whence)
}

// Close closes the file. Rendered files are in memory, so this function does nothing.
func (f *renderFile) Close() error {
	return nil
}

// dirEntry is a folder entry whose details are looked up on demand, since
// the size of a virtual file is only known once it is rendered.
type dirEntry struct {
	fsys fs.FS
	path string
	name string
	dir  bool
}

func (e dirEntry) Name() string { return e.name }
func (e dirEntry) IsDir() bool  { return e.dir }

// Type returns the type bits for the entry.
func (e dirEntry) Type() fs.FileMode {
	if e.dir {
		return fs.ModeDir
	}
	return 0
}

// Info returns the FileInfo for the file or subdirectory described by the entry.
func (e dirEntry) Info() (fs.FileInfo, error) {
	return fs.Stat(e.fsys, e.path)
}

// virtualDir is a folder listing that mixes virtual pages with files
// from the site folder.
type virtualDir struct {
	info    fileInfo
	path    string
	entries []fs.DirEntry
	offset  int
}

// Stat returns a FileInfo describing the folder.
func (d *virtualDir) Stat() (fs.FileInfo, error) {
	return d.info, nil
}

// Read fails because folders have no content.
func (d *virtualDir) Read(b []byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.path, Err: errors.New("is a directory")}
}

// Close closes the folder.
func (d *virtualDir) Close() error {
	return nil
}

// ReadDir reads the contents of the folder and returns a slice of up to n
// DirEntry values in name order. If n <= 0, ReadDir returns all remaining entries.
func (d *virtualDir) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := d.entries[d.offset:]
	if n <= 0 {
		d.offset = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	d.offset += n
	return rest[:n], nil
}
