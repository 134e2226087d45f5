package web

import (
	"io/fs"
	"log"
	"net/http"
)

// errorPages maps status codes to the page served for them.
var errorPages = map[int]string{
	http.StatusNotFound:            "404.html",
	http.StatusInternalServerError: "500.html",
}

// ErrorHandler captures 404 and 500 errors and serves /404.html or /500.html from the file system.
// If the page cannot be read, the original response is passed through.
func ErrorHandler(h http.Handler, fsys fs.FS) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseWriter{
			ResponseWriter: w,
			fsys:           fsys,
			method:         r.Method,
		}
		h.ServeHTTP(writer, r)
		if writer.status == http.StatusInternalServerError {
			log.Printf("ErrorHandler: internal error serving %s", r.URL.Path)
		}
	})
}

type responseWriter struct {
	http.ResponseWriter
	fsys    fs.FS
	method  string
	status  int
	noWrite bool
	err     error
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.noWrite {
		return len(b), w.err
	}
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.status = statusCode
	if file, ok := errorPages[statusCode]; ok {
		b, err := fs.ReadFile(w.fsys, file)
		if err == nil {
			h := w.Header()
			h.Set("Content-Type", "text/html; charset=utf-8")
			h.Del("Content-Length")
			h.Del("X-Content-Type-Options")
			w.ResponseWriter.WriteHeader(statusCode)
			w.noWrite = true
			if w.method != http.MethodHead {
				_, w.err = w.ResponseWriter.Write(b)
			}
			return
		}
		log.Printf("ErrorHandler: %s", err)
	}
	w.ResponseWriter.WriteHeader(statusCode)
}
