package store

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-redis/redis/v8"
	"github.com/yanun0323/errors"

	"tickerhub/internal/collector"
	"tickerhub/internal/model"
)

const defaultKeyPrefix = "tickerhub:latest:"

var _ collector.Sink = (*Cache)(nil)

// Cache keeps the latest successful snapshot of every driver in Redis.
// Failed runs leave the previous value in place until it expires.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewCache(client redis.Cmdable, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		prefix: defaultKeyPrefix,
	}
}

// Key returns the Redis key of driver.
func (c *Cache) Key(driver string) string {
	return c.prefix + driver
}

func (c *Cache) Save(ctx context.Context, results []collector.Result) error {
	pipe := c.client.Pipeline()
	var queued int
	for _, r := range results {
		if r.Err != nil {
			continue
		}

		data, err := EncodeTickers(r.Tickers)
		if err != nil {
			return errors.Wrap(err, "encode tickers").With("driver", r.Driver)
		}

		pipe.Set(ctx, c.Key(r.Driver), data, c.ttl)
		queued++
	}

	if queued == 0 {
		return nil
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "cache latest tickers")
	}
	return nil
}

// Latest returns the cached tickers of driver. ok is false when nothing is
// cached.
func (c *Cache) Latest(ctx context.Context, driver string) (tickers []model.Ticker, ok bool, err error) {
	data, err := c.client.Get(ctx, c.Key(driver)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "get latest tickers").With("driver", driver)
	}

	tickers, err = DecodeTickers(data)
	if err != nil {
		return nil, false, errors.Wrap(err, "decode latest tickers").With("driver", driver)
	}
	return tickers, true, nil
}

func EncodeTickers(tickers []model.Ticker) ([]byte, error) {
	if tickers == nil {
		tickers = []model.Ticker{}
	}
	return sonic.Marshal(tickers)
}

func DecodeTickers(data []byte) ([]model.Ticker, error) {
	var tickers []model.Ticker
	if err := sonic.Unmarshal(data, &tickers); err != nil {
		return nil, err
	}
	return tickers, nil
}
