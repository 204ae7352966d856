package v1

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// requestLogger logs request start and completion; 5xx completions at WARN.
func requestLogger(l *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			reqID := chimw.GetReqID(r.Context())
			l.Debug("request started", "req_id", reqID, "method", r.Method, "path", r.URL.Path)

			next.ServeHTTP(ww, r)

			level := slog.LevelInfo
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			l.Log(r.Context(), level, "request complete",
				"req_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
			)
		})
	}
}

// recoverer logs panics as ERROR and returns 500.
func recoverer(l *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					reqID := chimw.GetReqID(r.Context())
					l.Error("panic", "req_id", reqID, "err", rec, "stack", string(debug.Stack()))
					writeErr(w, http.StatusInternalServerError, "internal error", "internal")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
