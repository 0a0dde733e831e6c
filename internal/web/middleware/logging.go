// Package middleware provides HTTP middleware for the web server.
package middleware

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/LovedOnes/internal/logging"
)

// Logger writes one structured line per request once the handler returns.
//
// Fields: method, path, status, bytes, duration_ms, ip, user_agent, plus
// request_id from chi's RequestID middleware.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := WrapResponseWriter(w)

		next.ServeHTTP(ww, r)

		logger := logging.FromContext(r.Context())
		level := logger.Info
		if ww.Status() >= http.StatusInternalServerError {
			level = logger.Error
		}

		level("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", ClientIP(r),
			"user_agent", r.UserAgent(),
		)
	})
}

// StatusRecorder is a ResponseWriter that remembers the status code and the
// number of body bytes written.
type StatusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

// WrapResponseWriter returns w wrapped in a StatusRecorder. An existing
// StatusRecorder is returned as is.
func WrapResponseWriter(w http.ResponseWriter) *StatusRecorder {
	if sr, ok := w.(*StatusRecorder); ok {
		return sr
	}
	return &StatusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// Status returns the response status, 200 if none was written.
func (w *StatusRecorder) Status() int { return w.status }

// BytesWritten returns the number of body bytes written.
func (w *StatusRecorder) BytesWritten() int { return w.bytes }

func (w *StatusRecorder) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *StatusRecorder) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *StatusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
