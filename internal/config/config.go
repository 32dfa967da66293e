package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env           string
	Port          string
	DucksDir      string
	DataDir       string
	DatabaseURL   string
	SessionTTLMin int // minutes of inactivity before a session is swept
}

func Load() Config {
	// Best-effort .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	cfg := Config{
		Env:           getEnv("ENV", "development"),
		Port:          getEnv("PORT", "4805"),
		DucksDir:      getEnv("DUCKS_DIR", "ducks"),
		DataDir:       getEnv("DATA_DIR", "data"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SessionTTLMin: getEnvInt("SESSION_TTL_MIN", 60),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
