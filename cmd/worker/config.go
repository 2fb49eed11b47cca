package main

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"blog-backend/internal/config"
)

// Config holds the worker-only settings; the rest comes from the container
type Config struct {
	RedisAddr     string
	RedisPassword string
	Concurrency   int
	CleanupLimit  int
	HealthAddr    string
}

func loadConfig(app *config.Config) *Config {
	cfg := &Config{
		RedisAddr:     app.Queue.RedisAddr,
		RedisPassword: app.Redis.Password,
		Concurrency:   app.Queue.Concurrency,
		CleanupLimit:  getEnvInt("WORKER_CLEANUP_LIMIT", 500),
		HealthAddr:    getEnv("WORKER_HEALTH_ADDR", ":9999"),
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 10
	}

	log.Info().
		Str("redis", cfg.RedisAddr).
		Int("concurrency", cfg.Concurrency).
		Int("cleanup_limit", cfg.CleanupLimit).
		Msg("[Config] Worker configuration loaded")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
