package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Database struct {
	Driver     string
	Host       string
	User       string
	Password   string
	Name       string
	Port       string
	SSLMode    string
	SQLitePath string
	MaxRetries int
}

type Config struct {
	Port               string
	Database           Database
	RedisAddr          string
	KafkaBroker        string
	JWTSecret          string
	JWTTTL             time.Duration
	AdminUsername      string
	AdminPassword      string
	OutboxPollInterval time.Duration
	ConsumerGroupID    string
}

// Load reads .env when present and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: getEnv("PORT", "3000"),
		Database: Database{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Host:       getEnv("DB_HOST", "localhost"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", ""),
			Name:       getEnv("DB_NAME", "go_leave"),
			Port:       getEnv("DB_PORT", "5432"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "go-leave.db"),
			MaxRetries: getEnvAsInt("DB_MAX_RETRIES", 5),
		},
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		KafkaBroker:        getEnv("KAFKA_BROKER", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTTTL:             getEnvAsDuration("JWT_TTL", 15*time.Minute),
		AdminUsername:      getEnv("ADMIN_USERNAME", ""),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
		OutboxPollInterval: getEnvAsDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
		ConsumerGroupID:    getEnv("KAFKA_CONSUMER_GROUP", "go-leave-balance-seeder"),
	}
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(name string, defaultVal int) int {
	if v, err := strconv.Atoi(getEnv(name, "")); err == nil {
		return v
	}
	return defaultVal
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(name, "")); err == nil {
		return v
	}
	return defaultVal
}
