package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port    int
	Host    string
	BaseURL string

	// Remote fact API
	FactAPIURL    string
	RemoteTimeout time.Duration

	// Admin flag persistence
	AdminDBPath string

	// Board
	PageSize         int
	LeaderboardSize  int
	MaxFactLength    int
	MaxCommentLength int

	// Rate Limiting
	FactRateLimit    int // per window
	CommentRateLimit int // per window
	RateLimitWindow  time.Duration
}

func Load() *Config {
	// A local .env is optional.
	godotenv.Load()

	return &Config{
		Port:             getEnvInt("PORT", 8080),
		Host:             getEnv("HOST", "0.0.0.0"),
		BaseURL:          getEnv("BASE_URL", "http://localhost:8080"),
		FactAPIURL:       getEnv("FACT_API_URL", "https://fun-fact-api-rsu4.onrender.com/funfact"),
		RemoteTimeout:    getEnvDuration("REMOTE_TIMEOUT", 15*time.Second),
		AdminDBPath:      getEnv("ADMIN_DB_PATH", "funboard.db"),
		PageSize:         getEnvInt("PAGE_SIZE", 5),
		LeaderboardSize:  getEnvInt("LEADERBOARD_SIZE", 10),
		MaxFactLength:    getEnvInt("MAX_FACT_LENGTH", 500),
		MaxCommentLength: getEnvInt("MAX_COMMENT_LENGTH", 500),
		FactRateLimit:    getEnvInt("FACT_RATE_LIMIT", 10),
		CommentRateLimit: getEnvInt("COMMENT_RATE_LIMIT", 60),
		RateLimitWindow:  getEnvDuration("RATE_LIMIT_WINDOW", time.Hour),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
