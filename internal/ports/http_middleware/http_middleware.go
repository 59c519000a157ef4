package http_middleware

import (
	"net/http"

	"github.com/fllarpy/sampleapp/domain"
)

// CountRequests creates a middleware that increments the counter for the
// request's method and escaped URL path, then calls the next handler.
// Unmatched routes are counted too, since routing happens after the
// increment. The escaped path is what the client sent on the wire and is
// always ASCII, unlike the decoded r.URL.Path.
func CountRequests(counter domain.CounterWriter) func(http.Handler) http.Handler {
	if counter == nil {
		// Nothing to count into, return a no-op middleware.
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			counter.Increment(r.Method, r.URL.EscapedPath())
			next.ServeHTTP(w, r)
		})
	}
}
