package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	t.Setenv("DB_URL", "memory")
	for _, key := range []string{"PORT", "HOST", "ENVIRONMENT", "LOG_LEVEL", "ALLOW_ORIGINS", "UPLOAD_DIR", "STORAGE_URL", "REDIS_URL", "MEME_CACHE_TTL", "MAX_UPLOAD_BYTES", "BCRYPT_COST", "MONGO_DATABASE", "MIGRATION_PATH"} {
		t.Setenv(key, "")
	}

	config, err := NewAppConfig()
	require.NoError(t, err)

	assert.Equal(t, "memory", *config.DSN)
	assert.Equal(t, "5000", *config.Port)
	assert.Equal(t, "localhost:5000", *config.Host)
	assert.Equal(t, "development", *config.Environment)
	assert.Equal(t, "debug", *config.LogLevel)
	assert.Equal(t, []string{"*"}, *config.AllowOrigins)
	assert.Equal(t, "uploads", *config.UploadDir)
	assert.Equal(t, "file://uploads", *config.StorageURL)
	assert.Equal(t, "memecontest", *config.MongoDatabase)
	assert.Equal(t, "file://migrations", *config.MigrationPath)
	assert.Nil(t, config.RedisURL)
	assert.Equal(t, 30*time.Second, *config.MemeCacheTTL)
	assert.Equal(t, int64(0), *config.MaxUploadBytes)
	assert.Equal(t, 0, *config.BcryptCost)
}

func TestNewAppConfig_Overrides(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOW_ORIGINS", "http://a.example, http://b.example,")
	t.Setenv("UPLOAD_DIR", "/var/memes")
	t.Setenv("STORAGE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("MEME_CACHE_TTL", "5")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("S3_USE_PATH_STYLE", "true")

	config, err := NewAppConfig()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", *config.DSN)
	assert.Equal(t, "localhost:8080", *config.Host)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, *config.AllowOrigins)
	assert.Equal(t, "file:///var/memes", *config.StorageURL)
	require.NotNil(t, config.RedisURL)
	assert.Equal(t, 5*time.Second, *config.MemeCacheTTL)
	assert.Equal(t, int64(1048576), *config.MaxUploadBytes)
	assert.True(t, config.S3.UsePathStyle)
}

func TestNewAppConfig_MissingDSN(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("MONGO_URI", "")

	_, err := NewAppConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_URL")
}

func TestNewAppConfig_InvalidNumbers(t *testing.T) {
	t.Setenv("DB_URL", "memory")
	t.Setenv("MAX_UPLOAD_BYTES", "lots")

	_, err := NewAppConfig()
	assert.Error(t, err)

	t.Setenv("MAX_UPLOAD_BYTES", "")
	t.Setenv("S3_CREATE_BUCKET", "maybe")
	_, err = NewAppConfig()
	assert.Error(t, err)
}

func TestCatalogBackend(t *testing.T) {
	tests := map[string]CatalogBackend{
		"postgres://u:p@localhost:5432/db": CatalogPostgres,
		"postgresql://localhost/db":        CatalogPostgres,
		"mongodb://localhost:27017":        CatalogMongo,
		"mongodb+srv://cluster.example/db": CatalogMongo,
		"memory":                           CatalogMemory,
		"memory://":                        CatalogMemory,
	}
	for dsn, want := range tests {
		got, err := catalogBackend(dsn)
		require.NoError(t, err, dsn)
		assert.Equal(t, want, got, dsn)
	}

	_, err := catalogBackend("mysql://localhost/db")
	assert.ErrorContains(t, err, "mysql")
}
