package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the dashboard server reads from the environment
type Config struct {
	Port           string
	APIURL         string // backend admin API base URL
	UserAppURL     string // end-user app, target of impersonation hand-off
	GinMode        string
	LogLevel       string
	CookieSecure   bool
	CORSOrigins    []string
	SearchDebounce time.Duration
	StatusInterval time.Duration
	NumWorkers     int
	RedisURL       string
	Audit          Database
}

// Database configures the optional audit journal connection
type Database struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Load reads the configuration from environment variables, falling back to
// defaults suitable for local development
func Load() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		APIURL:         strings.TrimRight(getEnv("API_URL", "http://localhost:8000"), "/"),
		UserAppURL:     strings.TrimRight(getEnv("USER_APP_URL", "http://localhost:3000"), "/"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CookieSecure:   getBool("COOKIE_SECURE", false),
		CORSOrigins:    getList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		SearchDebounce: getDuration("SEARCH_DEBOUNCE", 300*time.Millisecond),
		StatusInterval: getDuration("STATUS_INTERVAL", 30*time.Second),
		NumWorkers:     getInt("NUM_WORKERS", 5),
		RedisURL:       getEnv("REDIS_URL", ""),
		Audit: Database{
			Enabled:  getBool("AUDIT_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "admin"),
			Name:     getEnv("DB_NAME", "admin_dashboard"),
		},
	}
}

// Helper function to get environment variable with default
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
