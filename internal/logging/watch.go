package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"
)

// maxWatchedResult caps how much of a watched result is copied into logs.
const maxWatchedResult = 200

// newWatchID returns a short random identifier used to correlate the
// start and end records of one watched call.
func newWatchID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(buf)
}

func truncateResult(result interface{}) string {
	s := fmt.Sprint(result)
	if len(s) > maxWatchedResult {
		return s[:maxWatchedResult-5] + "..."
	}
	return s
}

// Watch wraps fn so that every call logs a start record, then an end
// record with status, duration, and a truncated result (or the error).
// The wrapped error is returned unmodified. Search logs for "watched_cmd"
// to follow an operation across records via its watch_id.
func Watch[T any](logger Logger, name string, fn func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		id := newWatchID()
		start := time.Now()
		logger.Info(ctx, "watched_cmd",
			"watch_id", id,
			"name", name,
			"watch_type", "function",
		)

		result, err := fn(ctx)
		elapsed := time.Since(start)
		if err != nil {
			logger.Warn(ctx, err, "watched_cmd_end",
				"watch_id", id,
				"name", name,
				"status", "error",
				"duration_ms", elapsed.Milliseconds(),
			)
			return result, err
		}

		logger.Info(ctx, "watched_cmd_end",
			"watch_id", id,
			"name", name,
			"status", "ok",
			"duration_ms", elapsed.Milliseconds(),
			"result", truncateResult(result),
		)
		return result, nil
	}
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// WatchMiddleware applies watched-style start/end logging to every HTTP
// request handled below it.
func WatchMiddleware(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := newWatchID()
			start := time.Now()
			logger.Info(r.Context(), "watched_cmd",
				"watch_id", id,
				"name", r.URL.Path,
				"watch_type", "http_request",
				"method", r.Method,
			)

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			elapsed := time.Since(start)
			status := "ok"
			if recorder.status >= http.StatusInternalServerError {
				status = "error"
			}
			logger.Info(r.Context(), "watched_cmd_end",
				"watch_id", id,
				"name", r.URL.Path,
				"status", status,
				"http_status", recorder.status,
				"duration_ms", elapsed.Milliseconds(),
			)
		})
	}
}
