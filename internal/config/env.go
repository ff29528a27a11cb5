package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFile loads the first existing .env file. Variables already present
// in the process environment win.
func loadEnvFile() {
	for _, name := range envFiles {
		if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load environment file", "file", name, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "file", name)
		return
	}
}
