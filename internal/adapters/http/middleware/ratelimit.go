package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/porchest/portal-api/internal/adapters/http/respond"
	"github.com/porchest/portal-api/internal/platform/ratelimit"
)

// RateLimit returns middleware that throttles requests per client IP. The
// limiter profile is selected by route class: registration gets the register
// profile, auth routes the auth profile, everything else the default. When
// profiles is nil the middleware is a pass-through.
func RateLimit(profiles *ratelimit.Profiles) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if profiles == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := selectLimiter(profiles, r)
			if !limiter.Allow(clientKey(r)) {
				resp := respond.TooManyRequests("Too many requests, please try again later", limiter.RetryAfterSeconds())
				_ = resp.Write(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// selectLimiter picks the profile for the request's route class.
func selectLimiter(profiles *ratelimit.Profiles, r *http.Request) *ratelimit.Limiter {
	path := r.URL.Path
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/users"):
		return profiles.Register
	case strings.Contains(path, "/auth/"):
		return profiles.Auth
	default:
		return profiles.Default
	}
}

// clientKey identifies the client for throttling. X-Forwarded-For wins when
// present (first hop), otherwise the remote address without port.
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
