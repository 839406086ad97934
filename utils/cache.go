package utils

import (
	"context"
	"log"
	"time"

	"astrobook/config"

	"github.com/go-redis/redis/v8"
)

var (
	// LockClient backs the per-(provider, date) booking locks.
	LockClient *redis.Client
	// CreditClient holds the prepaid consultation minute counters.
	CreditClient *redis.Client
)

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
	return client
}

// InitRedis initializes every Redis client the service uses.
func InitRedis() {
	LockClient = newRedisClient(config.AppConfig.RedisLockDB, "Lock")
	CreditClient = newRedisClient(config.AppConfig.RedisCreditDB, "Credit")
}

// GetLockClient returns the Redis client used for booking locks.
func GetLockClient() *redis.Client {
	if LockClient == nil {
		LockClient = newRedisClient(config.AppConfig.RedisLockDB, "Lock")
	}
	return LockClient
}

// GetCreditClient returns the Redis client used for consultation credits.
func GetCreditClient() *redis.Client {
	if CreditClient == nil {
		CreditClient = newRedisClient(config.AppConfig.RedisCreditDB, "Credit")
	}
	return CreditClient
}

// RedisClients lists the initialized clients for health checks.
func RedisClients() []*redis.Client {
	var clients []*redis.Client
	for _, c := range []*redis.Client{LockClient, CreditClient} {
		if c != nil {
			clients = append(clients, c)
		}
	}
	return clients
}
