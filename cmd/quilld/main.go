// quilld serves a quill blog over HTTP.
//
// Every flag can also be set in the environment, for example QUILL_PORT=8080.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ancientlore/cachefs"
	"github.com/facebookgo/flagenv"
	"github.com/golang/groupcache"

	"github.com/ancientlore/quill/content"
	"github.com/ancientlore/quill/site"
	"github.com/ancientlore/quill/web"
)

// pageCacheBytes is the size of the cache of served files.
const pageCacheBytes = 10 * 1024 * 1024

func main() {
	// Setup flags
	var (
		fFolder            = flag.String("folder", ".", "Site folder holding quill.toml.")
		fPort              = flag.Int("port", 9000, "Port to listen on.")
		fReadTimeout       = flag.Duration("readtimeout", 10*time.Second, "HTTP server read timeout.")
		fReadHeaderTimeout = flag.Duration("readheadertimeout", 5*time.Second, "HTTP server read header timeout.")
		fWriteTimeout      = flag.Duration("writetimeout", 30*time.Second, "HTTP server write timeout.")
		fCacheDuration     = flag.Duration("cacheduration", 10*time.Second, "How long served files are cached.")
		fDrafts            = flag.Bool("drafts", false, "Include draft posts in listings.")
		fWatch             = flag.Bool("watch", true, "Watch the posts folder for changes.")
	)
	flag.Parse()
	flagenv.Prefix = "QUILL_"
	flagenv.Parse()

	// Read settings
	siteFS := os.DirFS(*fFolder)
	cfg, err := site.ReadConfig(siteFS)
	if err != nil {
		log.Printf("Cannot read configuration: %s", err)
		os.Exit(1)
	}
	postsDir := cfg.Posts
	if !filepath.IsAbs(postsDir) {
		postsDir = filepath.Join(*fFolder, postsDir)
	}

	// Load posts
	loader := content.New(postsDir)
	loader.IncludeDrafts = *fDrafts
	loader.OnReload = func(s *content.Snapshot) {
		log.Printf("Loaded %d posts from %q", len(s.Posts), postsDir)
	}
	if _, err := loader.Snapshot(); err != nil {
		log.Printf("Cannot load posts: %s", err)
		os.Exit(2)
	}

	// Setup groupcache (with no peers)
	groupcache.RegisterPeerPicker(func() groupcache.PeerPicker { return groupcache.NoPeers{} })

	// Create the virtual file system
	vfs, err := site.New(siteFS, loader, cfg)
	if err != nil {
		log.Printf("Cannot create site: %s", err)
		os.Exit(3)
	}

	// Create the cached file system; entries expire after the cache duration
	cachedFileSystem := cachefs.New(vfs, &cachefs.Config{GroupName: "quill", SizeInBytes: pageCacheBytes, Duration: *fCacheDuration})

	// create handler
	mux := http.NewServeMux()
	mux.Handle("/search", web.SearchHandler(vfs))
	mux.Handle("/", http.FileServer(http.FS(cachedFileSystem)))
	handler := web.HeaderHandler(
		web.ExpiresHandler(
			gziphandler.GzipHandler(
				web.ErrorHandler(mux, cachedFileSystem),
			),
			time.Duration(cfg.Expires),
			time.Duration(cfg.StaticExpires),
		),
		cfg.Headers)
	log.Print("Created handlers")

	// Create HTTP server
	var srv = http.Server{
		Addr:              fmt.Sprintf(":%d", *fPort),
		Handler:           handler,
		ReadTimeout:       *fReadTimeout,
		WriteTimeout:      *fWriteTimeout,
		ReadHeaderTimeout: *fReadHeaderTimeout,
	}

	// interrupt signal sent from terminal, sigterm signal sent from kubernetes
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Watch for content changes
	if *fWatch {
		go func() {
			if err := loader.Watch(ctx); err != nil {
				log.Printf("Watch: %s", err)
			}
		}()
	}

	// Shut down gracefully
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			// Error from closing listeners, or context timeout:
			log.Printf("HTTP server Shutdown: %v", err)
		}
	}()

	// Listen for requests
	log.Printf("Listening for requests on %s", srv.Addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Printf("HTTP server: %v", err)
	} else {
		log.Print("Goodbye.")
	}
}
