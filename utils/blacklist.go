package utils

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Logout token blacklist. Backed by redis when REDIS_ADDR is set so
// revocation survives restarts and is shared between instances;
// otherwise an in-process map is enough for a single-node deployment.

const blacklistTTL = 24 * time.Hour

var (
	blacklistedTokens = make(map[string]time.Time)
	blacklistMutex    sync.RWMutex
	redisClient       *redis.Client
)

// InitBlacklist connects the redis backend when configured. Safe to skip
// entirely; everything falls back to the in-memory map.
func InitBlacklist() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		ErrorLogger.Printf("Redis unreachable at %s, using in-memory blacklist: %v", addr, err)
		return
	}

	redisClient = client
	InfoLogger.Printf("Token blacklist backed by redis at %s", addr)
}

func BlacklistToken(token string) {
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := redisClient.Set(ctx, blacklistKey(token), "1", blacklistTTL).Err(); err == nil {
			return
		}
		// fall through to the map on redis failure
	}

	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	blacklistedTokens[token] = time.Now().Add(blacklistTTL)
}

func IsTokenBlacklisted(token string) bool {
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		n, err := redisClient.Exists(ctx, blacklistKey(token)).Result()
		if err == nil {
			return n > 0
		}
	}

	blacklistMutex.RLock()
	expiry, exists := blacklistedTokens[token]
	blacklistMutex.RUnlock()

	if !exists {
		return false
	}
	if time.Now().Before(expiry) {
		return true
	}

	blacklistMutex.Lock()
	delete(blacklistedTokens, token)
	blacklistMutex.Unlock()
	return false
}

func blacklistKey(token string) string {
	return "frontdesk:blacklist:" + token
}
