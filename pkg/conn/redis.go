package conn

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// RedisOption defines connection options for Redis.
type RedisOption struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis creates a Redis client and pings it.
func NewRedis(ctx context.Context, option RedisOption) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     option.Addr,
		Password: option.Password,
		DB:       option.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}
