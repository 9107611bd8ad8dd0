package http_server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	prom "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/grand-thief-cash/todolist/infra/application/components/logging"
	"github.com/grand-thief-cash/todolist/infra/application/components/prometheus"
)

// CaseInsensitive routes on the lower-cased path. Path parameters are lower-cased too,
// so it only suits routes whose parameters are case-free (numeric ids).
func CaseInsensitive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			path := rctx.RoutePath
			if path == "" {
				if r.URL.RawPath != "" {
					path = r.URL.RawPath
				} else {
					path = r.URL.Path
				}
			}
			rctx.RoutePath = strings.ToLower(path)
		}
		next.ServeHTTP(w, r)
	})
}

func corsHandler(cc *CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cc.AllowedOrigins,
		AllowedMethods:   cc.AllowedMethods,
		AllowedHeaders:   cc.AllowedHeaders,
		ExposedHeaders:   cc.ExposedHeaders,
		AllowCredentials: cc.AllowCredentials,
		MaxAge:           cc.MaxAge,
	})
}

// accessLog writes one http_access entry per request and echoes the W3C traceparent.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
			w.Header().Set("traceparent", fmt.Sprintf("00-%s-%s-%s", sc.TraceID(), sc.SpanID(), sc.TraceFlags()))
		}
		next.ServeHTTP(sw, r)
		logging.Info(r.Context(), "http_access",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", sw.status),
			zap.Duration("dur", time.Since(start)),
		)
	})
}

// requestMetrics counts requests by route pattern so path ids do not explode cardinality.
func requestMetrics(pc *prometheus.Component) func(http.Handler) http.Handler {
	total := pc.NewCounter("http_requests_total", "HTTP requests served.", []string{"method", "route", "status"})
	latency := pc.NewHistogram("http_request_duration_seconds", "HTTP request latency.", []string{"method", "route"}, nil)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw, ok := w.(*statusWriter)
			if !ok {
				sw = &statusWriter{ResponseWriter: w, status: http.StatusOK}
			}
			next.ServeHTTP(sw, r)
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			total.With(prom.Labels{"method": r.Method, "route": route, "status": strconv.Itoa(sw.status)}).Inc()
			latency.With(prom.Labels{"method": r.Method, "route": route}).Observe(time.Since(start).Seconds())
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}
