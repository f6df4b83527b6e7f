package ratelimit

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"
)

// KeyFunc picks the counter a request is charged to. An empty key skips
// limiting.
type KeyFunc func(r *http.Request) string

// Middleware rejects requests over the limit with 429 and a JSON error in
// the same shape as the rest of the API.
func Middleware(l Limiter, key KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if l == nil || k == "" {
				next.ServeHTTP(w, r)
				return
			}
			d := l.Allow(r.Context(), k)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			if d.Allowed {
				next.ServeHTTP(w, r)
				return
			}
			retry := int(math.Ceil(time.Until(d.ResetAt).Seconds()))
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{
					"kind":    "rate_limited",
					"message": "Too many scan attempts. Please wait a moment and try again.",
				},
			})
		})
	}
}
