package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// RequestLogger attaches logger to each request context and writes one access
// line per request, tagged with chi's request id.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	withLogger := hlog.NewHandler(logger)
	withRemote := hlog.RemoteAddrHandler("remote_addr")
	withRequestID := requestIDField("request_id")
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		event := hlog.FromRequest(r).Info()
		if status >= http.StatusInternalServerError {
			event = hlog.FromRequest(r).Warn()
		}
		event.
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})

	return func(next http.Handler) http.Handler {
		return withLogger(withRemote(withRequestID(access(next))))
	}
}

// requestIDField copies chi's request id into the request logger's context.
func requestIDField(field string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := middleware.GetReqID(r.Context()); id != "" {
				logger := zerolog.Ctx(r.Context())
				logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
					return c.Str(field, id)
				})
			}
			next.ServeHTTP(w, r)
		})
	}
}
