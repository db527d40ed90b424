package providers

import (
	"net/http"
	"time"
	"votekiosk/internal/structures"
)

// unmatchedEndpoint labels requests for paths outside the kiosk API.
const unmatchedEndpoint = "unmatched"

type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *responseRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *responseRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// MetricsMiddleware records count and latency for every kiosk API call and
// writes an access line to the log of the request's type. Server errors are
// logged as warnings so a failing screen shows up without debug logging.
func MetricsMiddleware(metrics MetricsProviderInterface, logger Logger, routes []structures.Route, next http.Handler) http.Handler {
	known := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		known[route.Url] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		endpoint := r.URL.Path
		if _, ok := known[endpoint]; !ok {
			endpoint = unmatchedEndpoint
		}
		metrics.IncRequestsTotal(endpoint, rec.status)
		metrics.ObserveRequestDuration(endpoint, duration)

		logType := GetLogTypeByRequestType(r.Method)
		if rec.status >= http.StatusInternalServerError {
			logger.Warnf(logType, "%s %s %d %dB %s", r.Method, r.URL.Path, rec.status, rec.bytes, duration)
			return
		}
		logger.Debugf(logType, "%s %s %d %dB %s", r.Method, r.URL.Path, rec.status, rec.bytes, duration)
	})
}
