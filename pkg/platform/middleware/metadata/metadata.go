// Package metadata records who is calling: client IP, user agent and the
// chi request id are copied into the request context.
package metadata

import (
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	platformStrings "helptoheat/pkg/platform/strings"
	"helptoheat/pkg/requestcontext"
)

const unknownClient = "unknown"

// ClientMetadata must run after chi's RequestID middleware.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIP(r), r.Header.Get("User-Agent"))
		if id := middleware.GetReqID(ctx); id != "" {
			ctx = requestcontext.WithRequestID(ctx, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// connection's remote address. It is the rate limiter's client key.
func ClientIP(r *http.Request) string {
	if hops := platformStrings.SplitList(r.Header.Get("X-Forwarded-For"), ","); len(hops) > 0 {
		return hops[0]
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if r.RemoteAddr == "" {
		return unknownClient
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
