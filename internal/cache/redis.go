// Package cache owns the Redis client. Redis backs the rate limiter only;
// user records are never cached.
package cache

import (
	"context"
	"fmt"
	"strconv"

	"user_manager/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

func SetupRedis(redisCfg *config.RedisConfig) *redis.Client {
	addr := fmt.Sprintf("%s:%s", redisCfg.Host, redisCfg.Port)

	dbNum, err := strconv.Atoi(redisCfg.RedisDB)
	if err != nil {
		logrus.Fatalf("Invalid Redis DB number: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: redisCfg.RedisPassword,
		DB:       dbNum,
	})

	// Test connection
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}

	return rdb
}
