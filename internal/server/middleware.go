package server

import (
	"net/http"
	"time"
)

// requestTimer logs the duration of each request, warning on slow ones so
// oversized simulation scans show up in the logs.
func (s *Server) requestTimer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)

		event := s.log.Debug()
		if duration > time.Second {
			event = s.log.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration_ms", duration).
			Msg("Request completed")
	})
}
