package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/memecontest/backend/src/app"
	"github.com/rs/zerolog/log"
)

const usage = "usage: migrate up|down"

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Overload(".env"); err != nil {
			log.Fatal().Err(err).Msg("Error loading .env file")
		}
	}

	config, err := app.NewAppConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger := app.InitLogger(*config.LogLevel, *config.Environment)

	dsn := *config.DSN
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		logger.Fatal().Msg("migrations only apply to postgres DB_URL")
	}

	switch os.Args[1] {
	case "up":
		err = app.MigrationUp(dsn, *config.MigrationPath)
	case "down":
		err = app.MigrationDown(dsn, *config.MigrationPath)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal().Err(err).Str("direction", os.Args[1]).Msg("migration failed")
	}

	logger.Info().Str("direction", os.Args[1]).Str("path", *config.MigrationPath).Msg("migration complete")
}
