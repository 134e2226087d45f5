package content

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"strconv"

	"github.com/golang/groupcache"
	"github.com/google/uuid"
)

// defaultRenderCacheBytes is the size of a loader's rendered Markdown cache.
const defaultRenderCacheBytes = 8 * 1024 * 1024

// ctxKey is the type used to pass the Markdown body to the cache getter.
type ctxKey string

// renderCache caches rendered post bodies. Keys include the file's modification
// time and size, so an edited file is never served from an older render.
type renderCache struct {
	group *groupcache.Group
}

// newRenderCache creates a cache with a unique group name, because groupcache
// does not allow a group to be registered twice.
func newRenderCache(cacheBytes int64) *renderCache {
	return &renderCache{
		group: groupcache.NewGroup("quill-render-"+uuid.NewString(), cacheBytes, groupcache.GetterFunc(
			func(ctx context.Context, key string, dest groupcache.Sink) error {
				body, ok := ctx.Value(ctxKey("body")).([]byte)
				if !ok {
					return fmt.Errorf("render group: no body for %q", key)
				}
				return dest.SetBytes(renderMarkdown(body))
			})),
	}
}

// render returns the HTML for body, which was read from the file name described by fi.
func (c *renderCache) render(ctx context.Context, name string, fi fs.FileInfo, body []byte) (template.HTML, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var (
		data []byte
		q    = make(url.Values, 3)
	)
	q.Set("path", name)
	q.Set("t", strconv.FormatInt(fi.ModTime().UnixNano(), 10))
	q.Set("size", strconv.FormatInt(fi.Size(), 10))
	ctx = context.WithValue(ctx, ctxKey("body"), body)
	err := c.group.Get(ctx, q.Encode(), groupcache.AllocatingByteSliceSink(&data))
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return template.HTML(data), nil
}
