package middleware

import (
	"net/http"
	"strings"
)

// securityHeaders are set on every response. The API only serves JSON and
// text, so the CSP forbids everything.
var securityHeaders = map[string]string{
	"X-Content-Type-Options":    "nosniff",
	"X-Frame-Options":           "DENY",
	"Referrer-Policy":           "no-referrer",
	"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
	"Content-Security-Policy":   "default-src 'none'; frame-ancestors 'none'",
}

// SecurityHeaders adds security headers to all responses.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for k, v := range securityHeaders {
			h.Set(k, v)
		}
		next.ServeHTTP(w, r)
	})
}

// MaxBodySize rejects bodies over maxBytes up front and caps the reader
// for bodies of unknown length.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				Text(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// badPathFragments never appear in a route of this API.
var badPathFragments = []string{"..", "//", "<script", "javascript:", "vbscript:", "onload=", "onerror="}

// anyContentType lists POST routes that parse their body as JSON whatever
// Content-Type the client sends, and report unparsable bodies themselves.
var anyContentType = map[string]bool{
	"/send": true,
}

// ValidateRequest rejects non-JSON POST bodies and paths carrying
// traversal or script fragments. Query strings are left alone: channel
// names are free text.
func ValidateRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.ContentLength > 0 && !anyContentType[r.URL.Path] {
			if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
				Text(w, http.StatusUnsupportedMediaType, "content-type must be application/json")
				return
			}
		}
		if suspiciousPath(r.URL.Path) {
			Text(w, http.StatusBadRequest, "invalid request")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func suspiciousPath(p string) bool {
	lower := strings.ToLower(p)
	for _, frag := range badPathFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}
