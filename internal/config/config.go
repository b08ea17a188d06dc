// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the field encryption core.
type Config struct {
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string

	// KeyCacheCapacity is the maximum number of derived keys kept in the keyring.
	KeyCacheCapacity int

	// EncryptMaxAttempts is the attempt budget for encrypt operations.
	EncryptMaxAttempts int
	// EncryptBaseDelay is the initial backoff delay for encrypt retries.
	EncryptBaseDelay time.Duration
	// DecryptMaxAttempts is the attempt budget for decrypt operations.
	DecryptMaxAttempts int
	// DecryptBaseDelay is the initial backoff delay for decrypt retries.
	DecryptBaseDelay time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "fieldcrypt"),

		// Keyring
		KeyCacheCapacity: env.GetInt("KEY_CACHE_CAPACITY", 10),

		// Retry budgets. Encryption failures are usually permanent (missing key),
		// so encrypts get fewer attempts and a shorter base delay than decrypts.
		EncryptMaxAttempts: env.GetInt("ENCRYPT_MAX_ATTEMPTS", 2),
		EncryptBaseDelay:   env.GetDuration("ENCRYPT_BASE_DELAY_MS", 500, time.Millisecond),
		DecryptMaxAttempts: env.GetInt("DECRYPT_MAX_ATTEMPTS", 3),
		DecryptBaseDelay:   env.GetDuration("DECRYPT_BASE_DELAY_MS", 1000, time.Millisecond),
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
