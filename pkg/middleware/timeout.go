package middleware

import (
	"net/http"
	"time"
)

// Timeout answers 503 with a JSON error when a handler runs past timeout.
// A non-positive timeout disables the limit.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.TimeoutHandler(next, timeout, `{"error":"request timeout"}`)
	}
}
