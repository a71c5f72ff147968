package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/longreader/observability"
)

// OtherRoute labels requests for paths outside the known route set.
const OtherRoute = "other"

// Metrics records request count and latency per method and route. Only the
// paths in routes are used as labels; anything else is recorded as
// OtherRoute so unknown URLs cannot grow the label set. A nil recorder
// disables it.
func Metrics(m *observability.Metrics, routes ...string) Middleware {
	known := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		known[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			route := OtherRoute
			if _, ok := known[r.URL.Path]; ok {
				route = r.URL.Path
			}
			m.RecordRequest(r.Context(), r.Method, route, sw.status, time.Since(start))
		})
	}
}
