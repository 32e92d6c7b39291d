package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	// =========================== REQUIRED ===========================

	// Catalog database URL: postgres://, mongodb:// or memory (required)
	DSN *string

	// =========================== OPTIONAL ===========================

	// Runtime environment: development, staging, production
	Environment *string

	// Logging configuration
	LogLevel *string

	// HTTP server configuration
	Port *string
	Host *string

	// CORS configuration, "*" allows any origin
	AllowOrigins *[]string

	// Upload limits, 0 disables the limit
	MaxUploadBytes *int64

	// Blob storage: file://<dir>, memory:// or s3://<bucket>[/<prefix>]
	UploadDir  *string
	StorageURL *string
	S3         *S3Config

	// MongoDB database name when DSN is a mongodb:// URL
	MongoDatabase *string

	// Migration configuration
	MigrationPath *string

	// Redis meme list cache, disabled when RedisURL is nil
	RedisURL     *string
	MemeCacheTTL *time.Duration

	// Password hashing cost, 0 means bcrypt.DefaultCost
	BcryptCost *int
}

type S3Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	CreateBucket    bool
}

func NewAppConfig() (*AppConfig, error) {
	config := &AppConfig{}

	// Load required configuration
	if err := loadRequiredConfig(config); err != nil {
		return nil, err
	}

	// Load optional configuration with defaults
	if err := loadOptionalConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// loadRequiredConfig fails fast if any required value is missing
func loadRequiredConfig(config *AppConfig) error {
	// MONGO_URI is accepted for deployments that predate DB_URL
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		dsn = os.Getenv("MONGO_URI")
	}
	if dsn == "" {
		return errors.New("REQUIRED: DB_URL not set in environment")
	}
	config.DSN = &dsn

	return nil
}

// loadOptionalConfig loads all optional configuration values with sensible defaults
func loadOptionalConfig(config *AppConfig) error {
	// HTTP server port (default: 5000)
	port := getEnvWithDefault("PORT", "5000")
	config.Port = &port

	host := getEnvWithDefault("HOST", "localhost:"+port)
	config.Host = &host

	environment := getEnvWithDefault("ENVIRONMENT", "development")
	config.Environment = &environment

	// Log level (default: debug)
	// Available levels: "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"
	logLevel := getEnvWithDefault("LOG_LEVEL", "debug")
	config.LogLevel = &logLevel

	allowOrigins := parseList(getEnvWithDefault("ALLOW_ORIGINS", "*"))
	config.AllowOrigins = &allowOrigins

	uploadDir := getEnvWithDefault("UPLOAD_DIR", "uploads")
	config.UploadDir = &uploadDir

	storageURL := getEnvWithDefault("STORAGE_URL", "file://"+uploadDir)
	config.StorageURL = &storageURL

	s3Config, err := loadS3Config()
	if err != nil {
		return err
	}
	config.S3 = s3Config

	mongoDatabase := getEnvWithDefault("MONGO_DATABASE", "memecontest")
	config.MongoDatabase = &mongoDatabase

	// Migration path (default: file://migrations)
	migrationPath := getEnvWithDefault("MIGRATION_PATH", "file://migrations")
	config.MigrationPath = &migrationPath

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		config.RedisURL = &redisURL
	}

	ttlSeconds, err := getIntWithDefault("MEME_CACHE_TTL", 30)
	if err != nil {
		return err
	}
	ttl := time.Duration(ttlSeconds) * time.Second
	config.MemeCacheTTL = &ttl

	maxUpload, err := getIntWithDefault("MAX_UPLOAD_BYTES", 0)
	if err != nil {
		return err
	}
	maxUploadBytes := int64(maxUpload)
	config.MaxUploadBytes = &maxUploadBytes

	bcryptCost, err := getIntWithDefault("BCRYPT_COST", 0)
	if err != nil {
		return err
	}
	config.BcryptCost = &bcryptCost

	return nil
}

func loadS3Config() (*S3Config, error) {
	usePathStyle, err := getBoolWithDefault("S3_USE_PATH_STYLE", false)
	if err != nil {
		return nil, err
	}
	createBucket, err := getBoolWithDefault("S3_CREATE_BUCKET", false)
	if err != nil {
		return nil, err
	}

	return &S3Config{
		Region:          os.Getenv("S3_REGION"),
		Endpoint:        os.Getenv("S3_ENDPOINT"),
		AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		UsePathStyle:    usePathStyle,
		CreateBucket:    createBucket,
	}, nil
}

// parseList splits a comma-separated value, dropping empty items
func parseList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid %s value %q", key, value)
	}
	return parsed, nil
}

func getBoolWithDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q", key, value)
	}
	return parsed, nil
}
