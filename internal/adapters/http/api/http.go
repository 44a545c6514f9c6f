package api

import (
	"context"
	"net/http"
)

// Register attaches the operational routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	health := NewHealthHandler()
	mux.Handle("/healthz", MetricsMiddleware(http.HandlerFunc(health.HandleHealth), "healthz"))
	mux.Handle("/metrics", MetricsHandler())
}
