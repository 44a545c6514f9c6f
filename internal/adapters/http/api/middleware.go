// Package api holds the dev server's operational endpoints and the HTTP
// middleware shared by every route.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/parkspot/pkg/logger"
	"github.com/okian/parkspot/pkg/metrics"
)

// HTTP status code boundaries.
const (
	statusBadRequest    = 400
	statusInternalError = 500
)

// MetricsMiddleware wraps a handler to record Prometheus metrics under endpoint.
func MetricsMiddleware(next http.Handler, endpoint string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Milliseconds())
		statusCodeStr := strconv.Itoa(wrapped.statusCode)
		metrics.RecordHTTPRequest(endpoint, r.Method, statusCodeStr)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, statusCodeStr, durationMs)
	})
}

// LoggingMiddleware logs one line per request; server errors at error level.
func LoggingMiddleware(next http.Handler, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		fields := []logger.Field{
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", wrapped.statusCode),
			logger.Duration("elapsed", time.Since(start)),
		}
		switch {
		case wrapped.statusCode >= statusInternalError:
			log.Error(r.Context(), "http request", fields...)
		case wrapped.statusCode >= statusBadRequest:
			log.Warn(r.Context(), "http request", fields...)
		default:
			log.Debug(r.Context(), "http request", fields...)
		}
	})
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush lets streamed proxy responses through the wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
