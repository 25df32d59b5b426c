package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Info().Err(err).Msg("no .env file found or error loading it")
	}

	app := &cli.Command{
		Name:  "songjournal",
		Usage: "Keep a journal of the songs you listen to and how they made you feel",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			searchCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("application error")
	}
}
