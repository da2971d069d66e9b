package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
)

func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)
		start := time.Now()

		lw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(lw, r)

		ev := log.Info()
		if lw.status >= http.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Bool("replayed", lw.Header().Get(idempotentReplayHeader) != "").
			Send()
	})
}
