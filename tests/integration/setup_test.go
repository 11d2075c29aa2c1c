//go:build integration

package integration

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"

	"user_manager/internal/cache"
	"user_manager/internal/config"
	"user_manager/internal/db"
)

// TestEnv holds all test dependencies
type TestEnv struct {
	DB          *sql.DB
	RedisClient *redis.Client
	Config      *config.Config
}

// SetupTestEnv initializes the test environment
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	cfg := loadTestConfig()

	database := db.Init(&cfg.DB)
	if database == nil {
		t.Fatal("Failed to connect to test database")
	}

	if err := db.Migrate(database); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	if _, err := database.Exec("TRUNCATE TABLE users RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("Failed to reset users table: %v", err)
	}

	redisClient := cache.SetupRedis(&cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}
	redisClient.FlushDB(ctx)

	return &TestEnv{
		DB:          database,
		RedisClient: redisClient,
		Config:      cfg,
	}
}

// Cleanup cleans up the test environment
func (env *TestEnv) Cleanup(t *testing.T) {
	t.Helper()

	if env.DB != nil {
		env.DB.Exec("TRUNCATE TABLE users RESTART IDENTITY CASCADE")
		env.DB.Close()
	}

	if env.RedisClient != nil {
		env.RedisClient.FlushDB(context.Background())
		env.RedisClient.Close()
	}
}

// loadTestConfig loads test configuration with defaults
func loadTestConfig() *config.Config {
	return &config.Config{
		AppName: "integration-test",
		AppEnv:  "test",
		AppPort: getEnv("APP_PORT", "8081"),
		DB: config.DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "user_manager_test"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: config.RedisConfig{
			Host:          getEnv("REDIS_HOST", "localhost"),
			Port:          getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnv("REDIS_DB", "1"),
		},
		JWT: config.JWTConfig{
			Secret: getEnv("JWT_SECRET", "test-secret-key-for-integration"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
