package http

import (
	"fmt"
	"net/http"
	"time"

	"go.bryk.io/routebroker/log"
	"go.bryk.io/routebroker/metadata"
)

// loggingHandler wraps next with a request-scoped log entry, grounded on
// the teacher's net/middleware/logging.Handler.
func loggingHandler(ll log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now().UTC()
		fields := metadata.New()
		fields.Set("http.request.method", r.Method)
		fields.Set("url.path", r.URL.Path)
		fields.Set("client.address", r.RemoteAddr)

		lrw := &loggingResponseWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(lrw, r)

		lapse := time.Since(start)
		fields.Set("event.duration_ms", fmt.Sprintf("%.3f", lapse.Seconds()*1000))
		fields.Set("http.response.status_code", lrw.code)
		fields.Set("http.response.body.bytes", lrw.size)
		ll.WithFields(fields.Values()).Print(levelForStatus(lrw.code), r.URL.String())
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	code int
	size int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.code = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

func levelForStatus(status int) log.Level {
	switch {
	case status >= 500:
		return log.Error
	case status >= 400:
		return log.Warning
	default:
		return log.Info
	}
}
