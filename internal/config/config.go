package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For cache TTL and timezone

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort    string         // Application port
	DBDriver   string         // Database driver: mysql, postgres or sqlite
	DBUser     string         // Database user
	DBPassword string         // Database password
	DBHost     string         // Database host
	DBPort     string         // Database port
	DBName     string         // Database name (file path for sqlite)
	JWTSecret  string         // JWT secret key
	RedisAddr  string         // Redis server address
	RedisPass  string         // Redis password
	RedisDB    int            // Redis database number
	CacheTTL   time.Duration  // TTL of cached read views
	Location   *time.Location // Timezone used for deadlines and manager hours
	IsProd     bool           // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	cacheTTL := time.Duration(getenvInt("CACHE_TTL_SECONDS", 60)) * time.Second
	return &Config{
		AppPort:    getenv("APP_PORT", "8080"),          // Application port
		DBDriver:   getenv("DB_DRIVER", "mysql"),        // Database driver
		DBUser:     os.Getenv("DB_USER"),                // Database user
		DBPassword: os.Getenv("DB_PASSWORD"),            // Database password
		DBHost:     os.Getenv("DB_HOST"),                // Database host
		DBPort:     os.Getenv("DB_PORT"),                // Database port
		DBName:     os.Getenv("DB_NAME"),                // Database name
		JWTSecret:  os.Getenv("JWT_SECRET"),             // JWT secret key
		RedisAddr:  os.Getenv("REDIS_ADDR"),             // Redis server address
		RedisPass:  os.Getenv("REDIS_PASS"),             // Redis password
		RedisDB:    redisDB,                             // Redis database number
		CacheTTL:   cacheTTL,                            // Cache TTL
		Location:   loadLocation(os.Getenv("TIMEZONE")), // Local timezone
		IsProd:     os.Getenv("IS_PROD") == "true",      // Is production environment
	}
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "postgres":
		return "host=" + c.DBHost + " port=" + c.DBPort + " user=" + c.DBUser + " password=" + c.DBPassword + " dbname=" + c.DBName + " sslmode=disable"
	case "sqlite":
		return c.DBName
	default:
		// clientFoundRows makes RowsAffected count matched rows, so an update that
		// changes nothing is not mistaken for a missing row
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&clientFoundRows=true"
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// loadLocation falls back to the server's local zone when TIMEZONE is unset or unknown
func loadLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}
