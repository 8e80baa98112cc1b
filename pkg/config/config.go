package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	DatabaseURL         string
	JWTSecret           string
	JWTAccessExpiry     time.Duration
	JWTRefreshExpiry    time.Duration
	GoogleClientID      string
	GoogleClientSecret  string
	FirebaseCredentials string

	// Classifier
	ClassifierRulesPath     string
	ClassifierMinConfidence int

	// Mail monitoring
	MonitorDefaultInterval time.Duration
	MonitorFetchTimeout    time.Duration
	DedupWindow            time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	accessExpiry := 15 * time.Minute
	if exp := os.Getenv("JWT_ACCESS_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	refreshExpiry := 168 * time.Hour // 7 days
	if exp := os.Getenv("JWT_REFRESH_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			refreshExpiry = parsed
		}
	}

	defaultInterval := getDuration("MONITOR_DEFAULT_INTERVAL", 15*time.Minute)

	// The fetch timeout defaults to the polling interval so a hung mailbox
	// can never overlap the next tick.
	fetchTimeout := getDuration("MONITOR_FETCH_TIMEOUT", defaultInterval)

	return &Config{
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=jobtrail port=5432 sslmode=disable"),
		JWTSecret:           getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:     accessExpiry,
		JWTRefreshExpiry:    refreshExpiry,
		GoogleClientID:      getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:  getEnv("GOOGLE_CLIENT_SECRET", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),

		ClassifierRulesPath:     getEnv("CLASSIFIER_RULES_PATH", ""),
		ClassifierMinConfidence: getInt("CLASSIFIER_MIN_CONFIDENCE", 40),

		MonitorDefaultInterval: defaultInterval,
		MonitorFetchTimeout:    fetchTimeout,
		DedupWindow:            getDuration("DEDUP_WINDOW", 48*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
