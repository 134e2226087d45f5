package web

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/ancientlore/quill/content"
)

// Searcher finds posts and presents the results.
type Searcher interface {
	Search(q string) ([]content.Post, error)
	RenderSearch(w io.Writer, q string, results []content.Post) error
	WriteSearchJSON(w io.Writer, results []content.Post) error
}

// SearchHandler answers GET /search?q=terms with the search page, or with JSON
// when the client accepts application/json. A blank query shows the search page
// without results.
func SearchHandler(s Searcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		q := r.URL.Query().Get("q")
		results, err := s.Search(q)
		if err != nil {
			log.Printf("SearchHandler: %s", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		var (
			buf         bytes.Buffer
			contentType string
		)
		if wantsJSON(r) {
			contentType = "application/json"
			err = s.WriteSearchJSON(&buf, results)
		} else {
			contentType = "text/html; charset=utf-8"
			err = s.RenderSearch(&buf, q, results)
		}
		if err != nil {
			log.Printf("SearchHandler: %s", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Vary", "Accept")
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			w.Write(buf.Bytes())
		}
	})
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") || r.URL.Query().Get("format") == "json"
}
