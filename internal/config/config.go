package config

import (
	"os"
	"strings"
	"time"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
)

type Config struct {
	Port           string
	Environment    string   // ENV: production, development, etc.
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)
	LogLevel       string

	StorageDriver string // where journal/mood/preferences are persisted
	SQLitePath    string
	PostgresURI   string // also backs accounts when set
	RedisURI      string // also backs session tokens and login rate limiting when set
	MongoURI      string

	Location *time.Location // calendar-day boundaries for "today" and weekday labels
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:5173"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" && !containsOrigin(allowedOrigins, u) {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    env,
		AllowedOrigins: allowedOrigins,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		StorageDriver:  normalizeDriver(getEnv("STORAGE_DRIVER", DriverSQLite)),
		SQLitePath:     getEnv("SQLITE_PATH", "./data/mindmate.db"),
		PostgresURI:    os.Getenv("POSTGRES_URI"),
		RedisURI:       os.Getenv("REDIS_URI"),
		MongoURI:       getEnv("MONGODB_URI", os.Getenv("MONGO_URI")),
		Location:       loadLocation(os.Getenv("TIMEZONE")),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func normalizeDriver(driver string) string {
	switch d := strings.ToLower(strings.TrimSpace(driver)); d {
	case DriverMemory, DriverSQLite, DriverPostgres, DriverRedis, DriverMongo:
		return d
	case "mongodb":
		return DriverMongo
	case "postgresql", "pg":
		return DriverPostgres
	default:
		return DriverSQLite
	}
}

// loadLocation falls back to the host zone when TIMEZONE is empty or unknown.
func loadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func containsOrigin(list []string, o string) bool {
	o = strings.TrimSpace(strings.ToLower(o))
	for _, v := range list {
		if strings.TrimSpace(strings.ToLower(v)) == o {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
