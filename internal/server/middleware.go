package server

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// TracingMiddleware tags each request with a trace ID and logs its timing.
type TracingMiddleware struct {
	ServiceName string
}

// Trace wraps a handler with trace-ID propagation and latency logging. An
// inbound X-Trace-ID is reused so browser-side correlation survives.
func (t *TracingMiddleware) Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.New().String()
		}
		w.Header().Set("X-Trace-ID", traceID)

		wrapper := newResponseWriter(w)
		start := time.Now()

		next.ServeHTTP(wrapper, r)

		log.Printf("%s: %s %s status=%d duration=%dms trace=%s",
			t.ServiceName, r.Method, r.URL.Path, wrapper.Status(),
			time.Since(start).Milliseconds(), traceID)
	})
}

// responseWriter captures the status code written by a handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Status returns the captured status code.
func (rw *responseWriter) Status() int {
	return rw.statusCode
}
