// internal/middleware/accesslog.go
//
// Access logging and request metrics.
//
// One wrapper records both, so status and duration are measured once.
// The route label is chi's matched pattern ("/", "/static/*"), never the
// raw path, which keeps Prometheus cardinality bounded.  Unmatched
// requests are labelled "unmatched".
//
// Log level follows the status: 5xx → error, 4xx → warn, else info.

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lacasailpaese/vetrina/internal/metrics"
	"github.com/lacasailpaese/vetrina/internal/requestinfo"
)

// AccessLog returns middleware that logs every request to log and updates
// the request counters.
func AccessLog(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			route := routePattern(r)

			metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
			metrics.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())

			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", elapsed,
			}
			if info := requestinfo.FromContext(r.Context()); info != nil {
				fields = append(fields,
					"request_id", info.ID,
					"ip", info.Geo.IP,
					"browser", info.UA.Browser,
					"bot", info.UA.IsBot,
				)
			}

			switch {
			case status >= 500:
				log.Errorw("request", fields...)
			case status >= 400:
				log.Warnw("request", fields...)
			default:
				log.Infow("request", fields...)
			}
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
