// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the settings for one shopledger process.
type Config struct {
	ServiceName       string
	LogLevel          string
	RestockThreshold  int
	AdminUser         string
	AdminPassword     string
	OTELHost          string
	SampleProbability float64
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	n, err := strconv.Atoi(getenv(key, ""))
	if err != nil {
		return def
	}
	return n
}

func floatenv(key string, def float64) float64 {
	f, err := strconv.ParseFloat(getenv(key, ""), 64)
	if err != nil {
		return def
	}
	return f
}

// Load reads files (default ".env") into the environment without overriding
// variables that are already set, then collects the configuration. Missing
// files are not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	threshold := atoienv("SHOP_RESTOCK_THRESHOLD", 0)
	if threshold < 0 {
		threshold = 0
	}
	prob := floatenv("OTEL_SAMPLE_PROBABILITY", 1.0)
	if prob < 0 || prob > 1 {
		prob = 1.0
	}

	return Config{
		ServiceName:       getenv("SHOP_SERVICE_NAME", "shopledger"),
		LogLevel:          getenv("SHOP_LOG_LEVEL", "info"),
		RestockThreshold:  threshold,
		AdminUser:         getenv("SHOP_ADMIN_USER", "admin"),
		AdminPassword:     getenv("SHOP_ADMIN_PASSWORD", "admin"),
		OTELHost:          getenv("OTEL_HOST", ""),
		SampleProbability: prob,
	}, nil
}
