// config.go - Handles configuration for the project

package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv" // .env loading
)

// Config holds all configuration values read from the environment.
type Config struct {
	Port    string // HTTP listen port
	GinMode string // gin mode (debug, release, test)

	DBDriver string // "sqlite" or "postgres"
	DBPath   string // sqlite file path or postgres DSN
	DBLogSQL bool   // log every SQL statement

	BcryptCost int // cost passed to bcrypt when hashing passwords

	MQTTBroker      string // broker URL, empty disables MQTT audit events
	MQTTClientID    string
	MQTTTopicPrefix string

	CORSOrigins []string
	LogLevel    string
}

// Load reads an optional .env file and then builds the config from
// environment variables, falling back to defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded, relying on environment", "error", err)
	}

	return &Config{
		Port:    getEnv("PORT", "5000"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DBPath:   getEnv("DB_PATH", "courses.db"),
		DBLogSQL: getEnvAsBool("DB_LOG_SQL", false),

		BcryptCost: getEnvAsInt("BCRYPT_COST", 10),

		MQTTBroker:      getEnv("MQTT_BROKER", ""),
		MQTTClientID:    getEnv("MQTT_CLIENT_ID", "course-api"),
		MQTTTopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "course-api/audit"),

		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string { // Helper to get env var or fallback
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

// getEnvAsList splits a comma-separated variable, dropping blank entries.
func getEnvAsList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
