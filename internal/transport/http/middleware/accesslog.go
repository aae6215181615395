package middleware

import (
	"net/http"
	"time"

	"github.com/baechuer/nutrition-service/internal/logger"
)

// statusWriter remembers the first status written and counts body bytes.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// code is the status the client saw; handlers that never write imply 200.
func (w *statusWriter) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// AccessLog writes one http_request line per request. 5xx responses are
// logged at warn. Must run after RequestID.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w}
		start := time.Now()

		next.ServeHTTP(sw, r)

		lg := logger.WithCtx(r.Context())
		ev := lg.Info()
		if sw.code() >= http.StatusInternalServerError {
			ev = lg.Warn()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.code()).
			Int("bytes", sw.bytes).
			Dur("latency", time.Since(start)).
			Msg("http_request")
	})
}
