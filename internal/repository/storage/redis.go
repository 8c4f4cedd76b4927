package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/connectfour-backend/internal/config"
)

const dialTimeout = 5 * time.Second

var ErrAddrNotFound = errors.New("redis host is empty")

// RedisStorage owns the client shared by the repositories.
type RedisStorage struct {
	Connection *redis.Client
}

// NewRedisStorage - connects to the configured Redis and verifies the connection with a ping.
func NewRedisStorage(ctx context.Context, conf config.Redis) (*RedisStorage, error) {
	if conf.Host == "" {
		return nil, ErrAddrNotFound
	}

	conn := redis.NewClient(&redis.Options{
		Addr:        conf.GetRedisAddr(),
		Password:    conf.Password,
		DB:          conf.DB,
		DialTimeout: dialTimeout,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", conf.GetRedisAddr(), err)
	}

	return &RedisStorage{Connection: conn}, nil
}

func (that *RedisStorage) Close() error {
	if err := that.Connection.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}

	return nil
}
