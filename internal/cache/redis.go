package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vendorlink/internal/config"
	"github.com/vendorlink/internal/constants"

	"github.com/redis/go-redis/v9"
)

var (
	rdb       *redis.Client
	keyPrefix string
)

// InitRedis 初始化 Redis 客户端，未启用时保持空客户端
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		rdb = nil
		return nil
	}

	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	keyPrefix = strings.TrimSpace(cfg.Prefix)
	if keyPrefix == "" {
		keyPrefix = constants.RedisPrefixDefault
	}

	rdb = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return nil
}

// Enabled 判断缓存是否启用
func Enabled() bool {
	return rdb != nil
}

// Client 获取 Redis 客户端，未启用时为 nil
func Client() *redis.Client {
	return rdb
}

// GetJSON 读取并反序列化缓存值，未命中返回 false
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	raw, err := rdb.Get(ctx, prefixed(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 序列化后写入缓存
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, prefixed(key), payload, ttl).Err()
}

// Del 删除缓存
func Del(ctx context.Context, key string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, prefixed(key)).Err()
}

func prefixed(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return keyPrefix
	}
	return keyPrefix + ":" + key
}
