package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"eventconnect/internal/adapters/ratelimit"
	h "eventconnect/internal/delivery/http/helpers"
)

// RateLimit limits requests per client IP to limit per window on the given route.
// A nil limiter or a non-positive limit disables it.
func RateLimit(limiter ratelimit.Limiter, metrics *Metrics, route string, limit int, window time.Duration) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || limit <= 0 {
				next(w, r)
				return
			}
			decision := limiter.Allow(r.Context(), route+"|"+clientIPKey(r), limit, window)
			applyRateHeaders(w.Header(), limit, decision)
			if !decision.Allowed {
				metrics.recordRateLimitHit(route)
				h.WriteJSONError(w, http.StatusTooManyRequests, h.ErrCodeTooManyRequests, "rate limit exceeded")
				return
			}
			next(w, r)
		}
	}
}

func applyRateHeaders(hdr http.Header, limit int, d ratelimit.Decision) {
	remaining := limit - d.Count
	if remaining < 0 {
		remaining = 0
	}
	hdr.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	hdr.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	if d.WindowEnd.IsZero() {
		return
	}
	hdr.Set("X-RateLimit-Reset", strconv.FormatInt(d.WindowEnd.Unix(), 10))
	if !d.Allowed {
		retry := int(time.Until(d.WindowEnd).Seconds())
		if retry < 1 {
			retry = 1
		}
		hdr.Set("Retry-After", strconv.Itoa(retry))
	}
}

func clientIPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		host = "unknown"
	}
	return "ip:" + host
}
