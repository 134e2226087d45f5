package site

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// Export writes every file of fsys into the folder dir, creating folders as
// needed. It stops early when ctx is canceled.
func Export(ctx context.Context, fsys fs.FS, dir string) error {
	count := 0
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(name))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		count++
		return os.WriteFile(target, b, 0o644)
	})
	if err != nil {
		return fmt.Errorf("Export: %w", err)
	}
	log.Printf("Export: wrote %d files to %s", count, dir)
	return nil
}
