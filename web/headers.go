package web

import (
	"net/http"
	"path"
	"strings"
	"time"
)

var gmtZone *time.Location

func init() {
	var err error
	gmtZone, err = time.LoadLocation("GMT")
	if err != nil {
		gmtZone = time.UTC
	}
}

// HeaderHandler returns an http.Handler that adds the given headers to the response.
func HeaderHandler(h http.Handler, headers map[string]string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		h.ServeHTTP(w, r)
	})
}

// renderedExtensions are the extensions of pages rendered from posts.
var renderedExtensions = []string{".html", ".xml", ".json"}

// isRendered reports whether the URL path names a rendered page rather than a static file.
func isRendered(urlPath string) bool {
	if strings.HasSuffix(urlPath, "/") || urlPath == "/search" {
		return true
	}
	ext := path.Ext(urlPath)
	for _, e := range renderedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ExpiresHandler adds the expires header choosing expires for rendered pages
// and staticExpires for static content.
func ExpiresHandler(h http.Handler, expires, staticExpires time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expiry := staticExpires
		if isRendered(r.URL.Path) {
			expiry = expires
		}
		if expiry != 0 {
			w.Header().Set("Expires", time.Now().Add(expiry).In(gmtZone).Format(time.RFC1123))
		}
		h.ServeHTTP(w, r)
	})
}
