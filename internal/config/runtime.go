package config

import (
	"os"
	"path/filepath"
)

const defaultRuntimePath = ".tuskcmd"

// GetRuntimePath is usable before the environment has been parsed, e.g. to
// find the .env file itself.
func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv("TUSK_RUNTIME_PATH"))
}

func GetEnvPath() string {
	return filepath.Join(GetRuntimePath(), ".env")
}

func resolveRuntimePath(path string) string {
	if path == "" {
		path = defaultRuntimePath
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
