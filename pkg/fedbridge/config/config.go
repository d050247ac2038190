// Package config loads the bridge's runtime configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings for the bridge server.
type Config struct {
	DBDriver   string
	DBDSN      string
	ProviderID string
	Port       string
}

// Load reads configuration from the environment. A missing .env file is not
// an error; explicit environment variables always win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		DBDriver:   getenv("FEDBRIDGE_DB_DRIVER", "sqlite"),
		DBDSN:      getenv("FEDBRIDGE_DB_DSN", "fedbridge.db"),
		ProviderID: getenv("FEDBRIDGE_PROVIDER_ID", "fedbridge"),
		Port:       getenv("PORT", "8080"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
