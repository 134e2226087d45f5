package content

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay collects bursts of file events, such as an editor's
// write-rename-chmod sequence, into a single reload.
const debounceDelay = 250 * time.Millisecond

// Watch invalidates and reloads the snapshot whenever a post file changes.
// While Watch runs, Snapshot no longer checks the folder on each call.
// It blocks until ctx is done. Watch requires a Loader created by New.
func (l *Loader) Watch(ctx context.Context) error {
	if l.dir == "" {
		return errors.New("Watch: loader has no folder on disk")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("Watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(l.dir); err != nil {
		return fmt.Errorf("Watch: %w", err)
	}

	l.mu.Lock()
	l.watching = true
	l.stale = true
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		l.watching = false
		l.mu.Unlock()
	}()

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	flush := func() {
		l.Invalidate()
		if _, err := l.Snapshot(); err != nil {
			log.Printf("Watch: %s", err)
		}
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isPostFile(filepath.Base(event.Name)) {
				continue
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, flush)
			mu.Unlock()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watch: %s", err)
		}
	}
}
