package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/memecontest/backend/src/utils"
)

// GetEnv reads key after loading the project .env, if there is one
func GetEnv(key string) string {
	_ = godotenv.Load(filepath.Join(utils.FindProjectRoot(), ".env"))
	return os.Getenv(key)
}

// RequireEnv skips the test when key is not configured
func RequireEnv(t *testing.T, key string) string {
	t.Helper()
	value := GetEnv(key)
	if value == "" {
		t.Skipf("%s is not set", key)
	}
	return value
}
