package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"workboard/internal/model"
)

type Config struct {
	ServerPort string
	JWTSecret  string
	LogLevel   log.Level

	TaskAPIURL     string
	TaskAPIToken   string
	TaskAPITimeout time.Duration
	Columns        []model.Status

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisURL     string
	BoardChannel string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("no .env file found, using system environment variables")
	}

	columns := model.ParseColumns(getEnv("BOARD_COLUMNS", ""))
	if len(columns) == 0 {
		columns = model.DefaultColumns()
	}

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "supersecretkey"),
		LogLevel:       getLevel("LOG_LEVEL", log.InfoLevel),
		TaskAPIURL:     getEnv("TASK_API_URL", "http://127.0.0.1:8000/api/"),
		TaskAPIToken:   getEnv("TASK_API_TOKEN", ""),
		TaskAPITimeout: getDuration("TASK_API_TIMEOUT", 10*time.Second),
		Columns:        columns,
		DBHost:         getEnv("DB_HOST", ""),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "workboard"),
		DBPassword:     getEnv("DB_PASSWORD", "workboard"),
		DBName:         getEnv("DB_NAME", "workboard"),
		RedisURL:       getEnv("REDIS_URL", ""),
		BoardChannel:   getEnv("BOARD_CHANNEL", "board-updates"),
	}
}

// DatabaseEnabled reports whether notifications are persisted to Postgres.
func (c *Config) DatabaseEnabled() bool {
	return c.DBHost != ""
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.WithField("key", key).Warnf("invalid duration %q, using %s", raw, defaultVal)
		return defaultVal
	}
	return d
}

func getLevel(key string, defaultVal log.Level) log.Level {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	lvl, err := log.ParseLevel(strings.TrimSpace(raw))
	if err != nil {
		log.WithField("key", key).Warnf("invalid log level %q, using %s", raw, defaultVal)
		return defaultVal
	}
	return lvl
}
