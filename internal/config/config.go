package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultMySQLDSN = "user:password@tcp(localhost:3306)/talksport?charset=utf8mb4&parseTime=True&loc=Local"

// ErrMissingJWTSecret is returned when JWT_SECRET is not set.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort   string
	DBDriver     string
	DatabaseDSN  string
	GormLogLevel string
	ResetDB      bool
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool
	CORSOrigins  []string
	SwaggerHost  string
}

// Load builds Config from the environment, reading a .env file first when present.
// Everything has a default except JWT_SECRET.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		DBDriver:     strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DatabaseDSN:  getEnv("DATABASE_DSN", getEnv("MYSQL_DSN", defaultMySQLDSN)),
		GormLogLevel: getEnv("GORM_LOG_LEVEL", "warn"),
		ResetDB:      getEnvBool("RESET_DB", false),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		SessionTTL:   getEnvDuration("SESSION_TTL", 2*time.Hour),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),
		CORSOrigins:  getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		SwaggerHost:  os.Getenv("SWAGGER_HOST"),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	return cfg, nil
}

// SeedConfig holds what cmd/seed needs. It does not require JWT_SECRET.
type SeedConfig struct {
	DBDriver     string
	DatabaseDSN  string
	GormLogLevel string
	SeedPassword string
	SeedPosts    int
}

// LoadSeed builds SeedConfig from the environment, reading a .env file first when present.
func LoadSeed() *SeedConfig {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	return &SeedConfig{
		DBDriver:     strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DatabaseDSN:  getEnv("DATABASE_DSN", getEnv("MYSQL_DSN", defaultMySQLDSN)),
		GormLogLevel: getEnv("GORM_LOG_LEVEL", "warn"),
		SeedPassword: getEnv("SEED_PASSWORD", "securepassword123"),
		SeedPosts:    getEnvInt("SEED_POSTS", 5),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
