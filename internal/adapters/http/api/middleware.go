package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/nestudio/pkg/logger"
	"github.com/okian/nestudio/pkg/metrics"
)

// MetricsMiddleware records request count, latency and error class for the
// named endpoint. Server errors are also logged. Site routes use it too.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	log := logger.Named("http")
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		code := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, float64(elapsed.Milliseconds()))

		if rec.status < http.StatusBadRequest {
			return
		}
		class, severity := classify(rec.status)
		metrics.RecordErrorByEndpoint(endpoint, r.Method, class)
		metrics.RecordErrorByType(class, severity)
		if rec.status >= http.StatusInternalServerError {
			log.Warn(r.Context(), "request failed",
				logger.String("endpoint", endpoint),
				logger.String("method", r.Method),
				logger.Int("status", rec.status),
				logger.Int("bytes", rec.bytes),
				logger.Duration("elapsed", elapsed))
		}
	}
}

// classify maps an error status to a metric class and severity.
func classify(status int) (string, string) {
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error", "high"
	case status == http.StatusMethodNotAllowed:
		return "method_not_allowed", "medium"
	case status == http.StatusNotFound:
		return "not_found", "low"
	default:
		return "client_error", "medium"
	}
}

// statusRecorder captures the status code and body size.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	wrote  bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wrote {
		s.status = code
		s.wrote = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wrote = true
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}
