package server

import (
	"crypto/subtle"
	"net/http"
	"time"

	"fjacquet/msg-ledger/internal/logging"
)

// apiKeyAuth gates requests on an X-API-Key header compared in constant
// time. An empty configured key disables the check.
func apiKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			provided := r.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid api key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs one line per request with method, path, status and
// duration.
func requestLogger(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.WithFields(
				logging.Field{Key: "method", Value: r.Method},
				logging.Field{Key: "path", Value: r.URL.Path},
				logging.Field{Key: "status", Value: rec.status},
				logging.Field{Key: "duration", Value: time.Since(start).String()},
			).Info("Request handled")
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
