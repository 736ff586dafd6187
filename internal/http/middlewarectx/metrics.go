package middlewarectx

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"

	"github.com/kweid-platfrom/frontend-sub005/internal/metrics"
)

// MetricsMiddleware counts every served request in the prometheus
// request counter.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		metrics.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(ww.Status())).Inc()
	})
}
