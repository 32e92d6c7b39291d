package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

var (
	rootOnce sync.Once
	rootDir  string
)

// FindProjectRoot walks up from this source file to the directory holding go.mod.
// Tests use it to locate migrations and .env regardless of their package dir.
func FindProjectRoot() string {
	rootOnce.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		rootDir = findUp(filepath.Dir(filename), "go.mod")
	})
	if rootDir == "" {
		panic("Could not find project root (go.mod not found)")
	}
	return rootDir
}

func findUp(dir, marker string) string {
	for {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
