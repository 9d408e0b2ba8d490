package config

import (
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Env      string
	LogLevel string

	HTTPAddr   string
	SocketAddr string
	CORSAllow  []string

	RedisURL    string // empty keeps the room directory in memory
	DefaultMode string
}

func Load() Config {
	return Config{
		Env:         getEnv("APP_ENV", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", ""),
		HTTPAddr:    getEnv("HTTP_ADDR", ":4101"),
		SocketAddr:  getEnv("SOCKET_ADDR", ":8000"),
		CORSAllow:   splitCSV(getEnv("CORS_ALLOW", "http://localhost:3000")),
		RedisURL:    os.Getenv("REDIS_URL"),
		DefaultMode: getEnv("DEFAULT_MODE", "Classic"),
	}
}

func (c Config) Prod() bool {
	return c.Env == "prod"
}

// getEnv returns the env var or a default
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// splitCSV trims and filters a comma-separated list
func splitCSV(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
