package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"

	"github.com/camden-git/songjournal/catalog"
	"github.com/camden-git/songjournal/config"
	"github.com/camden-git/songjournal/database"
	"github.com/camden-git/songjournal/handlers"
	"github.com/camden-git/songjournal/logging"
	"github.com/camden-git/songjournal/realtime"
	"github.com/camden-git/songjournal/services"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on, overrides PORT",
			},
		},
		Action: runServe,
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "Create or update the artist, song and journal tables",
		Action: runMigrate,
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the Spotify catalog from the command line",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of tracks to print",
				Value:   handlers.SearchLimit,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: runSearch,
	}
}

func newCatalog(cfg config.CatalogConfig) (*catalog.SpotifyClient, error) {
	return catalog.NewSpotifyClient(catalog.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		APIURL:       cfg.APIURL,
		Timeout:      cfg.Timeout,
		RateLimit:    cfg.RateLimit,
		RateBurst:    cfg.RateBurst,
	})
}

func openDatabase(cfg config.DatabaseConfig, logger zerolog.Logger) (*gorm.DB, error) {
	db, err := database.InitGormDB(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return db, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if port := cmd.String("port"); port != "" {
		cfg.Server.Port = port
	}

	logger := logging.New(cfg.Log)

	db, err := openDatabase(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error().Err(err).Msg("error closing database")
		}
	}()

	spotify, err := newCatalog(cfg.Catalog)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog client: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub(nil)
	go hub.Run(ctx)

	router := handlers.NewRouter(handlers.Deps{
		Journal:        services.NewJournalServiceFromDB(db),
		Catalog:        spotify,
		Ping:           func(ctx context.Context) error { return database.Ping(ctx, db) },
		Hub:            hub,
		Logger:         logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	serverAddr := ":" + cfg.Server.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	listener, err := net.Listen("tcp", serverAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", serverAddr, err)
	}
	logger.Info().Str("addr", serverAddr).Str("catalog", spotify.Name()).Msg("server listening")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func runMigrate(ctx context.Context, cmd *cli.Command) error {
	logCfg, err := config.LoadLogConfig()
	if err != nil {
		return err
	}
	logger := logging.New(logCfg)

	dbCfg, err := config.LoadDatabaseConfig()
	if err != nil {
		return err
	}

	db, err := openDatabase(dbCfg, logger)
	if err != nil {
		return err
	}
	logger.Info().Msg("migrations applied")
	return database.Close(db)
}

func runSearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("%w: a search query is required", catalog.ErrEmptyQuery)
	}

	logCfg, err := config.LoadLogConfig()
	if err != nil {
		return err
	}
	logging.New(logCfg)

	catCfg, err := config.LoadCatalogConfig()
	if err != nil {
		return err
	}
	spotify, err := newCatalog(catCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog client: %w", err)
	}

	tracks, err := spotify.SearchTracks(ctx, query, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}
	if cmd.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(tracks)
	}

	if len(tracks) == 0 {
		fmt.Fprintln(out, "no tracks found")
		return nil
	}
	for i, t := range tracks {
		fmt.Fprintf(out, "%d. %s by %s\n", i+1, t.Title, t.Artist)
	}
	return nil
}
