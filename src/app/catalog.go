package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/memecontest/backend/src/repository"
	repomemory "github.com/memecontest/backend/src/repository/memory"
	repomongo "github.com/memecontest/backend/src/repository/mongo"
	"github.com/rs/zerolog"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type CatalogBackend string

const (
	CatalogPostgres CatalogBackend = "postgres"
	CatalogMongo    CatalogBackend = "mongo"
	CatalogMemory   CatalogBackend = "memory"
)

// catalogBackend picks the store from the DB_URL scheme
func catalogBackend(dsn string) (CatalogBackend, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return CatalogPostgres, nil
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		return CatalogMongo, nil
	case dsn == "memory", strings.HasPrefix(dsn, "memory://"):
		return CatalogMemory, nil
	default:
		return "", fmt.Errorf("unsupported DB_URL scheme %q", schemeOf(dsn))
	}
}

func schemeOf(dsn string) string {
	if i := strings.Index(dsn, "://"); i >= 0 {
		return dsn[:i]
	}
	return dsn
}

func (app *Application) connectCatalog(ctx context.Context) error {
	logger := zerolog.Ctx(ctx).With().Str("function", "connectCatalog").Logger()

	backend, err := catalogBackend(*app.config.DSN)
	if err != nil {
		return err
	}

	switch backend {
	case CatalogPostgres:
		database, err := gorm.Open(postgresDriver.Open(*app.config.DSN), &gorm.Config{
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
			TranslateError: true,
		})
		if err != nil {
			return fmt.Errorf("connection to database failed: %w", err)
		}
		app.database = database

		db, err := database.DB()
		if err != nil {
			return fmt.Errorf("failed to get underlying database connection: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("connection to database failed: %w", err)
		}
		logger.Info().Msg("Database connection established")

		if err := MigrationUp(*app.config.DSN, *app.config.MigrationPath); err != nil {
			return err
		}

		app.memeRepo = repository.NewMemeRepository(database)
		app.contestantRepo = repository.NewContestantRepository(database)

	case CatalogMongo:
		client, err := repomongo.Connect(ctx, *app.config.DSN)
		if err != nil {
			return err
		}
		app.mongo = client
		logger.Info().Str("database", *app.config.MongoDatabase).Msg("Mongo connection established")

		db := client.Database(*app.config.MongoDatabase)
		if err := repomongo.EnsureIndexes(ctx, db); err != nil {
			return err
		}

		app.memeRepo = repomongo.NewMemeRepository(db)
		app.contestantRepo = repomongo.NewContestantRepository(db)

	case CatalogMemory:
		logger.Warn().Msg("Using in-memory catalog, data is lost on restart")
		app.memeRepo = repomemory.NewMemeRepository()
		app.contestantRepo = repomemory.NewContestantRepository()
	}

	app.catalog = backend
	return nil
}
