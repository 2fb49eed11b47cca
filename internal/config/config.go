package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"blog-backend/internal/infrastructure/database"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration, populated from environment variables
type Config struct {
	App      AppConfig
	Database *database.DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	MinIO    MinIOConfig
	Queue    QueueConfig
	Kafka    KafkaConfig
	Content  ContentConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production, test
	Port        string
	Version     string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // hours
	CookieSecure       bool
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// QueueConfig configures asynq. It shares the Redis instance by default.
type QueueConfig struct {
	RedisAddr   string
	Concurrency int
}

// KafkaConfig enables lifecycle events when Brokers is non-empty
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type ContentConfig struct {
	PageSize      int
	PopularLimit  int
	MaxImageBytes int64
}

// Load reads config from environment variables
func Load() (*Config, error) {
	dbConfig, err := LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	redisHost := getEnv("REDIS_HOST", "localhost:6379")

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "FirstBlog API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: dbConfig,
		Redis: RedisConfig{
			Host:     redisHost,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry:  getEnvInt("JWT_ACCESS_EXPIRY", 24*60),
			RefreshTokenExpiry: getEnvInt("JWT_REFRESH_EXPIRY", 72),
			CookieSecure:       getEnvBool("JWT_COOKIE_SECURE", false),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "firstblog"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Queue: QueueConfig{
			RedisAddr:   getEnv("QUEUE_REDIS_ADDR", redisHost),
			Concurrency: getEnvInt("QUEUE_CONCURRENCY", 10),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC", "firstblog.events"),
		},
		Content: ContentConfig{
			PageSize:      getEnvInt("CONTENT_PAGE_SIZE", 10),
			PopularLimit:  getEnvInt("CONTENT_POPULAR_LIMIT", 5),
			MaxImageBytes: int64(getEnvInt("CONTENT_MAX_IMAGE_BYTES", 5*1024*1024)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks settings that must not keep their defaults outside development
func (c *Config) Validate() error {
	if c.Content.PageSize <= 0 {
		return fmt.Errorf("CONTENT_PAGE_SIZE must be positive")
	}
	if c.Content.MaxImageBytes <= 0 {
		return fmt.Errorf("CONTENT_MAX_IMAGE_BYTES must be positive")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database == nil || c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if !c.JWT.CookieSecure {
			fmt.Println("WARNING: JWT_COOKIE_SECURE is false in production")
		}
	}

	return nil
}

// IsDevelopment is true for local runs
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma separated variable, dropping blanks
func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
