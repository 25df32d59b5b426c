package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/camden-git/songjournal/realtime"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Journal        JournalService
	Catalog        TrackSearcher
	Ping           func(ctx context.Context) error
	Hub            *realtime.Hub // optional; enables /ws live updates
	Logger         zerolog.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter wires every route onto a chi router.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(corsHandler.Handler)

	journalHandler := &JournalHandler{Service: deps.Journal}
	if deps.Hub != nil {
		journalHandler.Events = deps.Hub
		// long-lived, so outside the request timeout
		r.Get("/ws", deps.Hub.ServeWS)
	}
	artistHandler := &ArtistHandler{Service: deps.Journal}
	searchHandler := &SearchHandler{Catalog: deps.Catalog}
	healthHandler := &HealthHandler{Ping: deps.Ping}
	uiHandler := &UIHandler{Service: deps.Journal}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))

		r.Get("/", uiHandler.Index)
		r.Get("/static/*", AssetServer(StaticFS(), "/static/"))

		r.Get("/healthz", healthHandler.Live)
		r.Get("/readyz", healthHandler.Ready)

		r.Get("/artists", artistHandler.ListArtists)

		r.Get("/journal", journalHandler.ListEntries)
		r.Post("/journal", journalHandler.CreateEntry)
		r.Delete("/journal", journalHandler.DeleteEntry)

		r.Get("/search", searchHandler.SearchTracks)
	})

	return r
}
